package utils

const (
	// LanguageIdKey is the key for the language ID used in routing and query parameters.
	LanguageIdKey = "languageId"

	// LanguageNameKey is the key for the language name used in routing parameters.
	LanguageNameKey = "name"

	// CommentIdKey is the key for the comment ID used in routing parameters.
	CommentIdKey = "id"

	// OffsetParamKey is the key for offset used in pagination query parameters.
	OffsetParamKey = "offset"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"
)
