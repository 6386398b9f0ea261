package model

import "fmt"

// SourceMap locates a model element in MetaEd source text.
// It is a value type, so a copy can never alias another element's location.
type SourceMap struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	TokenText string `json:"tokenText"`
}

// NoSourceMap marks a value that was not derived from source text.
var NoSourceMap = SourceMap{}

// IsNone reports whether the source map is NoSourceMap.
func (s SourceMap) IsNone() bool {
	return s == NoSourceMap
}

// String returns "line:column" or "<synthetic>".
func (s SourceMap) String() string {
	if s.IsNone() {
		return "<synthetic>"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// ModelBaseSourceMap holds the source locations of the ModelBase fields.
type ModelBaseSourceMap struct {
	Type          SourceMap `json:"type"`
	Documentation SourceMap `json:"documentation"`
	MetaEdName    SourceMap `json:"metaEdName"`
	MetaEdID      SourceMap `json:"metaEdId"`
	IsDeprecated  SourceMap `json:"isDeprecated"`
}

// EntitySourceMap holds the source locations of TopLevelEntity fields.
type EntitySourceMap struct {
	BaseEntityName          SourceMap `json:"baseEntityName"`
	BaseEntityNamespaceName SourceMap `json:"baseEntityNamespaceName"`
	IsAbstract              SourceMap `json:"isAbstract"`
	AllowPrimaryKeyUpdates  SourceMap `json:"allowPrimaryKeyUpdates"`
	MapTypeEnumeration      SourceMap `json:"mapTypeEnumeration"`
}

// PropertySourceMap holds the source locations of EntityProperty fields.
type PropertySourceMap struct {
	Type                    SourceMap `json:"type"`
	MetaEdName              SourceMap `json:"metaEdName"`
	MetaEdID                SourceMap `json:"metaEdId"`
	Documentation           SourceMap `json:"documentation"`
	ReferencedNamespaceName SourceMap `json:"referencedNamespaceName"`
	RoleName                SourceMap `json:"roleName"`
	ShortenTo               SourceMap `json:"shortenTo"`
	IsPartOfIdentity        SourceMap `json:"isPartOfIdentity"`
	IsRequired              SourceMap `json:"isRequired"`
	IsOptional              SourceMap `json:"isOptional"`
	IsRequiredCollection    SourceMap `json:"isRequiredCollection"`
	IsOptionalCollection    SourceMap `json:"isOptionalCollection"`
	IsQueryableField        SourceMap `json:"isQueryableField"`
}
