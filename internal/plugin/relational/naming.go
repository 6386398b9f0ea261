package relational

import (
	"github.com/metaed-lang/metaed/internal/core/model"
)

// Names of the synthetic tables and columns every core schema carries.
const (
	DescriptorTableName    = "Descriptor"
	DescriptorIDColumnName = "DescriptorId"
	SchoolYearTableName    = "SchoolYearType"
	SchoolYearColumnName   = "SchoolYear"
)

// MainTableName returns the name of the table an entity's identity lives in.
// Extensions return the name of their extension table.
func MainTableName(entity *model.TopLevelEntity) string {
	switch entity.Type {
	case model.ModelTypeDescriptor:
		return entity.MetaEdName + "Descriptor"
	case model.ModelTypeEnumeration, model.ModelTypeMapTypeEnumeration:
		return entity.MetaEdName + "Type"
	case model.ModelTypeSchoolYearEnumeration:
		return SchoolYearTableName
	case model.ModelTypeDomainEntityExtension, model.ModelTypeAssociationExtension:
		return entity.BaseEntityName + "Extension"
	}
	return entity.MetaEdName
}

// rolePrefix is the role name a property adds in front of derived column
// names, empty when the role repeats the property name.
func rolePrefix(p *model.EntityProperty) string {
	if p.RoleName == "" || p.RoleName == p.MetaEdName {
		return ""
	}
	return p.RoleName
}

// simpleColumnName names the single column of a simple or shared property.
func simpleColumnName(p *model.EntityProperty) string {
	if p.ShortenTo != "" {
		return rolePrefix(p) + p.ShortenTo
	}
	return p.FullPropertyName()
}

// childTableSuffix is appended to the owning table's name to name a child table.
func childTableSuffix(p *model.EntityProperty) string {
	if p.ShortenTo != "" {
		return rolePrefix(p) + p.ShortenTo
	}
	if p.Type == model.PropertyTypeCommon {
		return rolePrefix(p) + p.ReferencedTypeName()
	}
	return p.FullPropertyName()
}

func descriptorIDColumnName(descriptorName string) string {
	return descriptorName + "DescriptorId"
}

func typeIDColumnName(enumerationName string) string {
	return enumerationName + "TypeId"
}
