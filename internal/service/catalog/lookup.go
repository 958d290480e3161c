package catalog

import (
	"fmt"

	"github.com/kirinyoku/tourcart/internal/domain"
)

// ProfileView is a profile with its resolved experiences.
type ProfileView struct {
	Name         string              `json:"name"`
	ProfileImage string              `json:"profileImage"`
	ShortText    string              `json:"shortText,omitempty"`
	SummaryText  string              `json:"summaryText,omitempty"`
	Experiences  []domain.Experience `json:"experiences"`
}

func (s *Service) Experiences() []domain.Experience {
	out := s.Current().Experiences()
	if out == nil {
		return []domain.Experience{}
	}
	return out
}

// Experience looks an experience up by id, then by slug.
func (s *Service) Experience(key string) (*domain.Experience, error) {
	e, ok := s.Current().Experience(key)
	if !ok {
		return nil, fmt.Errorf("service.catalog.Experience: %w", ErrExperienceNotFound)
	}
	return e, nil
}

func (s *Service) Addon(slug string) (*domain.Addon, error) {
	a, ok := s.Current().Addon(slug)
	if !ok {
		return nil, fmt.Errorf("service.catalog.Addon: %w", ErrAddonNotFound)
	}
	return a, nil
}

func (s *Service) ProfileNames() []string {
	out := s.Current().Profiles()
	if out == nil {
		return []string{}
	}
	return out
}

func (s *Service) Profile(name string) (*ProfileView, error) {
	c := s.Current()

	p, ok := c.Profile(name)
	if !ok {
		return nil, fmt.Errorf("service.catalog.Profile: %w", ErrProfileNotFound)
	}

	exps := c.ProfileExperiences(name)
	if exps == nil {
		exps = []domain.Experience{}
	}

	return &ProfileView{
		Name:         name,
		ProfileImage: p.ProfileImage,
		ShortText:    p.ShortText,
		SummaryText:  p.SummaryText,
		Experiences:  exps,
	}, nil
}
