package workaround

import (
	"fmt"
	"regexp"
	"strings"
)

// bracketType matches a "[TypeName]" marker in fact text.
var bracketType = regexp.MustCompile(`\[([A-Z][a-zA-Z]+)\]`)

// MarkEpisodeBody appends an entity-type marker line to an episode body
// so the types used survive in the stored content.
func MarkEpisodeBody(body string, typeNames []string) string {
	if len(typeNames) == 0 {
		return body
	}
	return body + fmt.Sprintf("\n[Entity Types: %s]", strings.Join(typeNames, ", "))
}

// MarkSourceDescription suffixes a source description with the entity
// types in play.
func MarkSourceDescription(desc string, typeNames []string) string {
	if len(typeNames) == 0 {
		return desc
	}
	suffix := "Entities: " + strings.Join(typeNames, ",")
	if desc == "" {
		return suffix
	}
	return desc + " | " + suffix
}

// AnnotateFact enhances a fact string with entity and edge type
// information so type filters can match on it later.
func AnnotateFact(fact, sourceType, targetType, edgeType string) string {
	return fmt.Sprintf("%s [%s--%s-->%s]", fact, sourceType, edgeType, targetType)
}

// ExtractEntityType pulls an entity type name out of a fact string.
// A bracketed "[TypeName]" marker wins; otherwise the fact is scanned
// for a case-insensitive mention of a known type name. Empty when
// nothing matches.
func ExtractEntityType(fact string, knownTypes []string) string {
	if m := bracketType.FindStringSubmatch(fact); m != nil {
		return m[1]
	}

	lower := strings.ToLower(fact)
	for _, name := range knownTypes {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// MatchesEntityType reports whether a fact mentions the given type,
// either via a bracket marker or plain text.
func MatchesEntityType(fact, entityType string) bool {
	if strings.Contains(fact, "["+entityType+"]") {
		return true
	}
	return strings.Contains(strings.ToLower(fact), strings.ToLower(entityType))
}
