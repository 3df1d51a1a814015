// Package service is the entry point to the blueprint core. It validates
// input, calls the repository and applies the configured filter on single
// blueprint reads. Nothing is cached: every read reaches the repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arsw/blueprints/internal/blueprint"
	"github.com/arsw/blueprints/internal/filter"
)

// BlueprintService orchestrates blueprint operations.
type BlueprintService struct {
	repo   blueprint.Repository
	filter filter.Filter
}

// New creates a BlueprintService. A nil filter means identity.
func New(repo blueprint.Repository, f filter.Filter) *BlueprintService {
	if f == nil {
		f = filter.Identity{}
	}
	return &BlueprintService{repo: repo, filter: f}
}

// FilterName reports the name of the configured read filter.
func (s *BlueprintService) FilterName() string {
	return s.filter.Name()
}

// CreateBlueprint validates and stores a new blueprint.
func (s *BlueprintService) CreateBlueprint(ctx context.Context, author, name string, points []blueprint.Point) (*blueprint.Blueprint, error) {
	bp, err := blueprint.New(author, name, points)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bp); err != nil {
		return nil, err
	}

	slog.Debug("blueprint created", "author", bp.Author, "name", bp.Name, "points", len(bp.Points))
	return bp, nil
}

// FetchBlueprint returns a single blueprint with the read filter applied.
func (s *BlueprintService) FetchBlueprint(ctx context.Context, author, name string) (*blueprint.Blueprint, error) {
	key, err := blueprint.ValidateKey(author, name)
	if err != nil {
		return nil, err
	}

	bp, err := s.repo.Get(ctx, key.Author, key.Name)
	if err != nil {
		logCorruption(err, key.String())
		return nil, err
	}

	filtered := s.filter.Apply(*bp)
	return &filtered, nil
}

// FetchByAuthor returns every blueprint of author, unfiltered.
func (s *BlueprintService) FetchByAuthor(ctx context.Context, author string) ([]blueprint.Blueprint, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, fmt.Errorf("%w: author must not be empty", blueprint.ErrInvalidInput)
	}

	bps, err := s.repo.GetByAuthor(ctx, author)
	if err != nil {
		logCorruption(err, author)
		return nil, err
	}
	return bps, nil
}

// FetchAll returns every stored blueprint, unfiltered.
func (s *BlueprintService) FetchAll(ctx context.Context) ([]blueprint.Blueprint, error) {
	bps, err := s.repo.GetAll(ctx)
	if err != nil {
		logCorruption(err, "*")
		return nil, err
	}
	return bps, nil
}

// AppendPoint adds p at the end of the blueprint's point list.
func (s *BlueprintService) AppendPoint(ctx context.Context, author, name string, p blueprint.Point) error {
	key, err := blueprint.ValidateKey(author, name)
	if err != nil {
		return err
	}
	return s.repo.AppendPoint(ctx, key.Author, key.Name, p)
}

func logCorruption(err error, scope string) {
	if errors.Is(err, blueprint.ErrDataCorruption) {
		slog.Error("corrupt blueprint data in store", "scope", scope, "error", err)
	}
}
