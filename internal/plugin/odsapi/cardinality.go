package odsapi

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// AssociationDefinitionCardinalityEnhancer sets association cardinality for
// technology versions before 6.1.
func AssociationDefinitionCardinalityEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "AssociationDefinitionCardinalityEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, LegacyVersions) {
		return enhancer.Ok(name)
	}
	applyCardinality(metaEd, false)
	return enhancer.Ok(name)
}

// AssociationDefinitionCardinalityEnhancerV6dot1 sets association cardinality
// from 6.1 on. One-to-one references sourced from a common take their
// cardinality from the property.
func AssociationDefinitionCardinalityEnhancerV6dot1(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "AssociationDefinitionCardinalityEnhancerV6dot1"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, V6dot1OrGreater) {
		return enhancer.Ok(name)
	}
	applyCardinality(metaEd, true)
	return enhancer.Ok(name)
}

func applyCardinality(metaEd *model.MetaEdEnvironment, commonSourced bool) {
	for _, ns := range metaEd.Namespaces() {
		data, ok := LookupData(ns)
		if !ok {
			continue
		}
		for _, definition := range data.AssociationDefinitions {
			definition.Cardinality = cardinalityOf(metaEd, definition, commonSourced)
		}
	}
}

// cardinalityOf checks, in order: the relationship kind, primary key parity of
// an identifying reference, and the required collection flag the parent table
// carries in the aggregate holding the referenced table.
func cardinalityOf(metaEd *model.MetaEdEnvironment, definition *AssociationDefinition, commonSourced bool) Cardinality {
	source := definition.ForeignKey.SourceReference
	if source.IsSubclassRelationship {
		return CardinalityOneToOneInheritance
	}
	if source.IsExtensionRelationship {
		return CardinalityOneToOneExtension
	}

	if definition.IsIdentifying &&
		len(definition.PrimaryTable.PrimaryKeys()) == len(definition.SecondaryTable.PrimaryKeys()) {
		if commonSourced && source.IsCommonSourced() {
			return cardinalityFromSourceReference(source)
		}
		return CardinalityOneToOne
	}

	aggregates := aggregatesContaining(metaEd, definition.PrimaryTable.Schema, definition.PrimaryTable.Name)
	if len(aggregates) != 1 {
		return cardinalityFromCollectionFlags(source)
	}
	parent, ok := aggregates[0].EntityTable(definition.SecondaryTable.Schema, definition.SecondaryTable.Name)
	if !ok {
		return cardinalityFromCollectionFlags(source)
	}
	if parent.IsRequiredCollection {
		return CardinalityOneToOneOrMore
	}
	return CardinalityOneToZeroOrMore
}

func cardinalityFromSourceReference(source relational.SourceReference) Cardinality {
	switch {
	case source.IsRequired:
		return CardinalityOneToOne
	case source.IsOptional:
		return CardinalityOneToZeroOrOne
	case source.IsRequiredCollection:
		return CardinalityOneToOneOrMore
	}
	return CardinalityOneToZeroOrMore
}

func cardinalityFromCollectionFlags(source relational.SourceReference) Cardinality {
	if source.IsRequiredCollection {
		return CardinalityOneToOneOrMore
	}
	return CardinalityOneToZeroOrMore
}
