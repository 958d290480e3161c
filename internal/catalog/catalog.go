// Package catalog holds the read-only experience catalog loaded once per
// session. Every lookup is safe on a nil *Catalog, so a catalog that has not
// been loaded yet behaves exactly like an empty one.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/kirinyoku/tourcart/internal/domain"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	data        domain.CatalogData
	byID        map[string]int
	bySlug      map[string]int
	addonBySlug map[string]int
	version     string
}

// Parse decodes a catalog document.
func Parse(r io.Reader) (*domain.CatalogData, error) {
	const op = "catalog.Parse"

	var data domain.CatalogData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &data, nil
}

// New indexes data into an immutable catalog. A nil data yields an empty
// catalog. Experience addons given as slugs are resolved against the addon
// list; unknown slugs are dropped.
func New(data *domain.CatalogData) *Catalog {
	c := &Catalog{
		byID:        make(map[string]int),
		bySlug:      make(map[string]int),
		addonBySlug: make(map[string]int),
	}
	if data == nil {
		c.version = hashOf(c.data)
		return c
	}

	c.data.Addons = append([]domain.Addon(nil), data.Addons...)
	for i, a := range c.data.Addons {
		if a.Slug == "" {
			continue
		}
		if _, dup := c.addonBySlug[a.Slug]; !dup {
			c.addonBySlug[a.Slug] = i
		}
	}

	c.data.Profiles = make(map[string]domain.Profile, len(data.Profiles))
	for name, p := range data.Profiles {
		p.Experiences = append([]string(nil), p.Experiences...)
		c.data.Profiles[name] = p
	}

	c.data.Experiences = make([]domain.Experience, 0, len(data.Experiences))
	for _, e := range data.Experiences {
		e.Addons = c.resolveAddons(e.Addons)
		e.AvailableDates = append([]string(nil), e.AvailableDates...)
		c.data.Experiences = append(c.data.Experiences, e)

		idx := len(c.data.Experiences) - 1
		if _, dup := c.byID[e.ID]; !dup && e.ID != "" {
			c.byID[e.ID] = idx
		}
		if _, dup := c.bySlug[e.Slug]; !dup && e.Slug != "" {
			c.bySlug[e.Slug] = idx
		}
	}

	c.version = hashOf(c.data)

	return c
}

func (c *Catalog) resolveAddons(in []domain.ExperienceAddon) []domain.ExperienceAddon {
	out := make([]domain.ExperienceAddon, 0, len(in))
	for _, a := range in {
		if !a.Ref {
			out = append(out, a)
			continue
		}
		idx, ok := c.addonBySlug[a.Slug]
		if !ok {
			continue
		}
		out = append(out, domain.ExperienceAddon{Addon: c.data.Addons[idx]})
	}
	return out
}

func hashOf(data domain.CatalogData) string {
	b, _ := json.Marshal(data)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Version is a content hash of the catalog.
func (c *Catalog) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

// Data returns the resolved catalog document.
func (c *Catalog) Data() domain.CatalogData {
	if c == nil {
		return domain.CatalogData{}
	}
	return c.data
}

func (c *Catalog) Experiences() []domain.Experience {
	if c == nil {
		return nil
	}
	return slices.Clone(c.data.Experiences)
}

func (c *Catalog) ExperienceByID(id string) (*domain.Experience, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	e := c.data.Experiences[idx]
	return &e, true
}

func (c *Catalog) ExperienceBySlug(slug string) (*domain.Experience, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.bySlug[slug]
	if !ok {
		return nil, false
	}
	e := c.data.Experiences[idx]
	return &e, true
}

// Experience looks an experience up by id first and slug second.
func (c *Catalog) Experience(key string) (*domain.Experience, bool) {
	if e, ok := c.ExperienceByID(key); ok {
		return e, true
	}
	return c.ExperienceBySlug(key)
}

func (c *Catalog) Addons() []domain.Addon {
	if c == nil {
		return nil
	}
	return slices.Clone(c.data.Addons)
}

func (c *Catalog) Addon(slug string) (*domain.Addon, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.addonBySlug[slug]
	if !ok {
		return nil, false
	}
	a := c.data.Addons[idx]
	return &a, true
}

// TotalAddonsPrice sums the price of every addon the experience offers.
func (c *Catalog) TotalAddonsPrice(e *domain.Experience) decimal.Decimal {
	total := decimal.Zero
	if e == nil {
		return total
	}
	for _, a := range e.Addons {
		total = total.Add(a.Price)
	}
	return total
}

// Profiles returns the profile names in sorted order.
func (c *Catalog) Profiles() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.data.Profiles))
	for name := range c.data.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Profile(name string) (*domain.Profile, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.data.Profiles[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *Catalog) ProfileImage(name string) string {
	if p, ok := c.Profile(name); ok {
		return p.ProfileImage
	}
	return ""
}

func (c *Catalog) ShortText(name string) string {
	if p, ok := c.Profile(name); ok {
		return p.ShortText
	}
	return ""
}

func (c *Catalog) SummaryText(name string) string {
	if p, ok := c.Profile(name); ok {
		return p.SummaryText
	}
	return ""
}

func (c *Catalog) ProfileExperienceSlugs(name string) []string {
	if p, ok := c.Profile(name); ok {
		return p.Experiences
	}
	return nil
}

// ProfileExperiences returns the experiences listed by the profile, in
// catalog order.
func (c *Catalog) ProfileExperiences(name string) []domain.Experience {
	slugs := c.ProfileExperienceSlugs(name)
	if len(slugs) == 0 {
		return nil
	}

	out := make([]domain.Experience, 0, len(slugs))
	for _, e := range c.data.Experiences {
		if slices.Contains(slugs, e.Slug) {
			out = append(out, e)
		}
	}
	return out
}
