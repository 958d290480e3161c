package redis

import "fmt"

const ns = "tourcart:v1"

func KeyCatalog() string {
	return ns + ":catalog:latest"
}

func KeyCartSnapshot(sessionID string) string {
	return fmt.Sprintf("%s:cart:%s", ns, sessionID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyIdemCartAdd(sessionID, idemKey string) string {
	return fmt.Sprintf("%s:idem:cart:%s:%s", ns, sessionID, idemKey)
}

func ChannelCartsChanged() string {
	return ns + ":carts:changed"
}

func ChannelCatalogChanged() string {
	return ns + ":catalog:changed"
}
