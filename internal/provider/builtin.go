package provider

import (
	"github.com/DjordjeVuckovic/news-aggregator/pkg/apis"
)

const (
	NewsAPIName = "newsapi"
	NYTimesName = "nytimes"
)

// NewsAPI describes the top-headlines endpoint of newsapi.org. Supported params are
// country, category, from and to.
func NewsAPI() apis.Provider {
	return apis.Provider{
		Name:        NewsAPIName,
		Type:        apis.ProviderTypeJSON,
		Endpoint:    "https://newsapi.org/v2/top-headlines",
		RecordsPath: "articles",
		APIKeyParam: "apiKey",
		Params:      map[string]string{"country": "us"},
		FieldMappings: []apis.FieldMapping{
			{Source: "title", Target: apis.TargetTitle},
			{Source: "description", Target: apis.TargetDescription},
			{Source: "url", Target: apis.TargetURL},
			{Source: "source.name", Target: apis.TargetSource},
			{Source: "author", Target: apis.TargetAuthor},
			{Source: "category", Target: apis.TargetCategory},
			{Source: "publishedAt", Target: apis.TargetPublishedAt},
		},
	}
}

// NYTimes describes the Top Stories API. The section param selects the path segment.
func NYTimes() apis.Provider {
	return apis.Provider{
		Name:        NYTimesName,
		Type:        apis.ProviderTypeJSON,
		Endpoint:    "https://api.nytimes.com/svc/topstories/v2/{section}.json",
		RecordsPath: "results",
		APIKeyParam: "api-key",
		Params:      map[string]string{"section": "home"},
		Source:      "NYT",
		FieldMappings: []apis.FieldMapping{
			{Source: "title", Target: apis.TargetTitle},
			{Source: "abstract", Target: apis.TargetDescription},
			{Source: "url", Target: apis.TargetURL},
			{Source: "byline", Target: apis.TargetAuthor},
			{Source: "section", Target: apis.TargetCategory},
			{Source: "published_date", Target: apis.TargetPublishedAt},
		},
	}
}
