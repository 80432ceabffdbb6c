package services

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildTemplateFilter maps a (search, category) pair onto a Mongo predicate.
// search matches case-insensitively against name or category; the input is
// quoted so it is always a literal pattern, never an operator. category is
// lower-cased and matched exactly. Both empty yields the match-all predicate.
func BuildTemplateFilter(search, category string) bson.M {
	filter := bson.M{}

	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"category": pattern},
		}
	}

	if category != "" {
		filter["category"] = strings.ToLower(category)
	}

	return filter
}

// templateSort maps the sort query value onto a Mongo sort document.
// Unknown or empty values fall back to newest-first.
func templateSort(sort string) bson.D {
	switch sort {
	case "popular":
		return bson.D{{Key: "popularity", Value: -1}, {Key: "createdAt", Value: -1}}
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
