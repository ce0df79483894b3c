package in_mem

import (
	"testing"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/storagetest"
)

func TestStore_Articles(t *testing.T) {
	storagetest.RunArticleStore(t, func(t *testing.T) storage.ArticleStore {
		return NewStore()
	})
}

func TestStore_Preferences(t *testing.T) {
	storagetest.RunPreferenceStore(t, func(t *testing.T) storage.PreferenceStore {
		return NewStore()
	})
}
