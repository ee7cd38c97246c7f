package memory

import (
	"context"
	"sort"

	"mcq-practice-service/internal/domain"
)

// StaticCatalog serves fixed subject and model lists, the way the
// original client shipped them, for running without a database.
type StaticCatalog struct {
	subjects []domain.CatalogEntry
	models   []domain.CatalogEntry
}

// NewStaticCatalogFromSets derives the catalog from static question
// sets, deduplicated and sorted by name.
func NewStaticCatalogFromSets(sets map[string]domain.QuestionSet) *StaticCatalog {
	subjects := map[string]int64{}
	models := map[string]int64{}
	for _, set := range sets {
		subjects[set.SubjectName] = set.SubjectID
		models[set.ModelName] = set.ModelID
	}
	return &StaticCatalog{
		subjects: toEntries(subjects),
		models:   toEntries(models),
	}
}

func (c *StaticCatalog) ListSubjects(_ context.Context) ([]domain.CatalogEntry, error) {
	return c.subjects, nil
}

func (c *StaticCatalog) ListModels(_ context.Context) ([]domain.CatalogEntry, error) {
	return c.models, nil
}

func toEntries(byName map[string]int64) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(byName))
	for name, id := range byName {
		entries = append(entries, domain.CatalogEntry{ID: id, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
