package model

// ModelType identifies the concrete kind of a model element. It selects the
// repository bucket an element lives in.
type ModelType string

const (
	ModelTypeUnknown               ModelType = "unknown"
	ModelTypeAssociation           ModelType = "association"
	ModelTypeAssociationExtension  ModelType = "associationExtension"
	ModelTypeAssociationSubclass   ModelType = "associationSubclass"
	ModelTypeChoice                ModelType = "choice"
	ModelTypeCommon                ModelType = "common"
	ModelTypeCommonExtension       ModelType = "commonExtension"
	ModelTypeCommonSubclass        ModelType = "commonSubclass"
	ModelTypeDecimalType           ModelType = "decimalType"
	ModelTypeDescriptor            ModelType = "descriptor"
	ModelTypeDomain                ModelType = "domain"
	ModelTypeDomainEntity          ModelType = "domainEntity"
	ModelTypeDomainEntityExtension ModelType = "domainEntityExtension"
	ModelTypeDomainEntitySubclass  ModelType = "domainEntitySubclass"
	ModelTypeEnumeration           ModelType = "enumeration"
	ModelTypeInlineCommon          ModelType = "inlineCommon"
	ModelTypeIntegerType           ModelType = "integerType"
	ModelTypeInterchange           ModelType = "interchange"
	ModelTypeInterchangeExtension  ModelType = "interchangeExtension"
	ModelTypeMapTypeEnumeration    ModelType = "mapTypeEnumeration"
	ModelTypeSchoolYearEnumeration ModelType = "schoolYearEnumeration"
	ModelTypeSharedDecimal         ModelType = "sharedDecimal"
	ModelTypeSharedInteger         ModelType = "sharedInteger"
	ModelTypeSharedString          ModelType = "sharedString"
	ModelTypeStringType            ModelType = "stringType"
	ModelTypeSubdomain             ModelType = "subdomain"
)

// AllModelTypes is the fixed set of repository buckets.
var AllModelTypes = []ModelType{
	ModelTypeAssociation,
	ModelTypeAssociationExtension,
	ModelTypeAssociationSubclass,
	ModelTypeChoice,
	ModelTypeCommon,
	ModelTypeCommonExtension,
	ModelTypeCommonSubclass,
	ModelTypeDecimalType,
	ModelTypeDescriptor,
	ModelTypeDomain,
	ModelTypeDomainEntity,
	ModelTypeDomainEntityExtension,
	ModelTypeDomainEntitySubclass,
	ModelTypeEnumeration,
	ModelTypeInlineCommon,
	ModelTypeIntegerType,
	ModelTypeInterchange,
	ModelTypeInterchangeExtension,
	ModelTypeMapTypeEnumeration,
	ModelTypeSchoolYearEnumeration,
	ModelTypeSharedDecimal,
	ModelTypeSharedInteger,
	ModelTypeSharedString,
	ModelTypeStringType,
	ModelTypeSubdomain,
}

// TopLevelEntityModelTypes are the kinds represented by TopLevelEntity.
var TopLevelEntityModelTypes = []ModelType{
	ModelTypeAssociation,
	ModelTypeAssociationExtension,
	ModelTypeAssociationSubclass,
	ModelTypeChoice,
	ModelTypeCommon,
	ModelTypeCommonExtension,
	ModelTypeCommonSubclass,
	ModelTypeDescriptor,
	ModelTypeDomainEntity,
	ModelTypeDomainEntityExtension,
	ModelTypeDomainEntitySubclass,
	ModelTypeEnumeration,
	ModelTypeInlineCommon,
	ModelTypeMapTypeEnumeration,
	ModelTypeSchoolYearEnumeration,
}

// IsValid reports whether t is one of AllModelTypes.
func (t ModelType) IsValid() bool {
	for _, known := range AllModelTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsTopLevelEntity reports whether t is represented by TopLevelEntity.
func (t ModelType) IsTopLevelEntity() bool {
	for _, known := range TopLevelEntityModelTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsSubclass reports whether t declares a base entity it specializes.
func (t ModelType) IsSubclass() bool {
	return t == ModelTypeDomainEntitySubclass || t == ModelTypeAssociationSubclass || t == ModelTypeCommonSubclass
}

// IsExtension reports whether t declares a base entity it extends.
func (t ModelType) IsExtension() bool {
	return t == ModelTypeDomainEntityExtension ||
		t == ModelTypeAssociationExtension ||
		t == ModelTypeCommonExtension ||
		t == ModelTypeInterchangeExtension
}

// IsSharedSimple reports whether t is one of the shared simple kinds.
func (t ModelType) IsSharedSimple() bool {
	return t == ModelTypeSharedDecimal || t == ModelTypeSharedInteger || t == ModelTypeSharedString
}

// PropertyType identifies the kind of an EntityProperty.
type PropertyType string

const (
	PropertyTypeUnknown               PropertyType = "unknown"
	PropertyTypeAssociation           PropertyType = "association"
	PropertyTypeBoolean               PropertyType = "boolean"
	PropertyTypeChoice                PropertyType = "choice"
	PropertyTypeCommon                PropertyType = "common"
	PropertyTypeCurrency              PropertyType = "currency"
	PropertyTypeDate                  PropertyType = "date"
	PropertyTypeDatetime              PropertyType = "datetime"
	PropertyTypeDecimal               PropertyType = "decimal"
	PropertyTypeDescriptor            PropertyType = "descriptor"
	PropertyTypeDomainEntity          PropertyType = "domainEntity"
	PropertyTypeDuration              PropertyType = "duration"
	PropertyTypeEnumeration           PropertyType = "enumeration"
	PropertyTypeInlineCommon          PropertyType = "inlineCommon"
	PropertyTypeInteger               PropertyType = "integer"
	PropertyTypePercent               PropertyType = "percent"
	PropertyTypeSchoolYearEnumeration PropertyType = "schoolYearEnumeration"
	PropertyTypeSharedDecimal         PropertyType = "sharedDecimal"
	PropertyTypeSharedInteger         PropertyType = "sharedInteger"
	PropertyTypeSharedShort           PropertyType = "sharedShort"
	PropertyTypeSharedString          PropertyType = "sharedString"
	PropertyTypeShort                 PropertyType = "short"
	PropertyTypeString                PropertyType = "string"
	PropertyTypeTime                  PropertyType = "time"
	PropertyTypeYear                  PropertyType = "year"
)

// AllPropertyTypes lists every property kind in index order.
var AllPropertyTypes = []PropertyType{
	PropertyTypeAssociation,
	PropertyTypeBoolean,
	PropertyTypeChoice,
	PropertyTypeCommon,
	PropertyTypeCurrency,
	PropertyTypeDate,
	PropertyTypeDatetime,
	PropertyTypeDecimal,
	PropertyTypeDescriptor,
	PropertyTypeDomainEntity,
	PropertyTypeDuration,
	PropertyTypeEnumeration,
	PropertyTypeInlineCommon,
	PropertyTypeInteger,
	PropertyTypePercent,
	PropertyTypeSchoolYearEnumeration,
	PropertyTypeSharedDecimal,
	PropertyTypeSharedInteger,
	PropertyTypeSharedShort,
	PropertyTypeSharedString,
	PropertyTypeShort,
	PropertyTypeString,
	PropertyTypeTime,
	PropertyTypeYear,
}

// IsValid reports whether t is one of AllPropertyTypes.
func (t PropertyType) IsValid() bool {
	for _, known := range AllPropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsReference reports whether properties of kind t point at a TopLevelEntity.
func (t PropertyType) IsReference() bool {
	switch t {
	case PropertyTypeAssociation, PropertyTypeChoice, PropertyTypeCommon, PropertyTypeDescriptor,
		PropertyTypeDomainEntity, PropertyTypeEnumeration, PropertyTypeInlineCommon,
		PropertyTypeSchoolYearEnumeration:
		return true
	}
	return false
}

// IsSharedSimple reports whether properties of kind t point at a SharedSimple.
func (t PropertyType) IsSharedSimple() bool {
	switch t {
	case PropertyTypeSharedDecimal, PropertyTypeSharedInteger, PropertyTypeSharedShort, PropertyTypeSharedString:
		return true
	}
	return false
}

// IsEntityReference reports whether t references an entity with its own identity,
// as opposed to commons which are owned by their parent.
func (t PropertyType) IsEntityReference() bool {
	return t == PropertyTypeAssociation || t == PropertyTypeDomainEntity
}

// ReferencedModelTypes returns the model types a property of kind t may resolve to,
// in search order. Simple kinds return nil.
func (t PropertyType) ReferencedModelTypes() []ModelType {
	switch t {
	case PropertyTypeAssociation:
		return []ModelType{ModelTypeAssociation, ModelTypeAssociationSubclass}
	case PropertyTypeChoice:
		return []ModelType{ModelTypeChoice}
	case PropertyTypeCommon:
		return []ModelType{ModelTypeCommon, ModelTypeCommonSubclass}
	case PropertyTypeDescriptor:
		return []ModelType{ModelTypeDescriptor}
	case PropertyTypeDomainEntity:
		return []ModelType{ModelTypeDomainEntity, ModelTypeDomainEntitySubclass}
	case PropertyTypeEnumeration:
		return []ModelType{ModelTypeEnumeration, ModelTypeMapTypeEnumeration}
	case PropertyTypeInlineCommon:
		return []ModelType{ModelTypeInlineCommon}
	case PropertyTypeSchoolYearEnumeration:
		return []ModelType{ModelTypeSchoolYearEnumeration}
	case PropertyTypeSharedDecimal:
		return []ModelType{ModelTypeSharedDecimal}
	case PropertyTypeSharedInteger, PropertyTypeSharedShort:
		return []ModelType{ModelTypeSharedInteger}
	case PropertyTypeSharedString:
		return []ModelType{ModelTypeSharedString}
	}
	return nil
}
