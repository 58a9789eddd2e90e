package managers

import (
	"context"
	"errors"
	"strings"
	"time"

	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// CatalogMgr is the read-only view on the language catalog used by the user-owned collections.
type CatalogMgr interface {
	ResolveLanguageId(ctx context.Context, name string) (int, error)
	LanguageExists(ctx context.Context, id int) (bool, error)
	GetLanguage(ctx context.Context, name string) (*schemas.Language, error)
	ListLanguages(ctx context.Context) ([]schemas.Language, error)
}

// CatalogManager answers catalog lookups from an expirable LRU in front of the languages table.
// Only hits are cached, so languages added by a migration become visible without a restart.
type CatalogManager struct {
	databaseMgr DatabaseMgr
	metricsMgr  MetricsMgr
	byName      *lru.LRU[string, schemas.Language]
	byId        *lru.LRU[int, schemas.Language]
}

func NewCatalogManager(databaseMgr DatabaseMgr, metricsMgr MetricsMgr, size int, ttl time.Duration) CatalogMgr {
	if size <= 0 {
		size = 256
	}

	return &CatalogManager{
		databaseMgr: databaseMgr,
		metricsMgr:  metricsMgr,
		byName:      lru.NewLRU[string, schemas.Language](size, nil, ttl),
		byId:        lru.NewLRU[int, schemas.Language](size, nil, ttl),
	}
}

func (cm *CatalogManager) remember(language *schemas.Language) {
	cm.byName.Add(strings.ToLower(language.Name), *language)
	cm.byId.Add(language.ID, *language)
}

// GetLanguage looks a language up by name, ignoring case. It fails with stores.ErrNotFound.
func (cm *CatalogManager) GetLanguage(ctx context.Context, name string) (*schemas.Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if language, ok := cm.byName.Get(key); ok {
		cm.metricsMgr.RecordCatalogLookup(true)
		return &language, nil
	}
	cm.metricsMgr.RecordCatalogLookup(false)

	language, err := stores.NewLanguageStore(cm.databaseMgr.GetPool()).FindByName(ctx, key)
	if err != nil {
		return nil, err
	}

	cm.remember(language)
	return language, nil
}

// ResolveLanguageId maps a language name to its id, ignoring case.
func (cm *CatalogManager) ResolveLanguageId(ctx context.Context, name string) (int, error) {
	language, err := cm.GetLanguage(ctx, name)
	if err != nil {
		return 0, err
	}
	return language.ID, nil
}

func (cm *CatalogManager) LanguageExists(ctx context.Context, id int) (bool, error) {
	if _, ok := cm.byId.Get(id); ok {
		cm.metricsMgr.RecordCatalogLookup(true)
		return true, nil
	}
	cm.metricsMgr.RecordCatalogLookup(false)

	language, err := stores.NewLanguageStore(cm.databaseMgr.GetPool()).FindByID(ctx, id)
	if errors.Is(err, stores.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cm.remember(language)
	return true, nil
}

func (cm *CatalogManager) ListLanguages(ctx context.Context) ([]schemas.Language, error) {
	languages, err := stores.NewLanguageStore(cm.databaseMgr.GetPool()).List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range languages {
		cm.remember(&languages[i])
	}
	return languages, nil
}
