package model

// EntityProperty is a property of a TopLevelEntity. Simple kinds carry value
// facets; reference and shared-simple kinds carry a ReferencedEntity that
// starts at the kind's sentinel and is set by exactly one reference enhancer.
type EntityProperty struct {
	Type          PropertyType
	MetaEdName    string
	MetaEdID      string
	Documentation string

	Namespace        *Namespace
	ParentEntity     *TopLevelEntity
	ParentEntityName string

	// ReferencedType names the referenced element when it differs from MetaEdName,
	// as for a shared simple property declared under another name.
	ReferencedType             string
	ReferencedNamespaceName    string
	ReferencedEntity           ModelElement
	ReferencedEntityDeprecated bool

	RoleName  string
	ShortenTo string

	IsPartOfIdentity     bool
	IsRequired           bool
	IsOptional           bool
	IsRequiredCollection bool
	IsOptionalCollection bool
	IsQueryableField     bool
	IsDeprecated         bool

	MergeDirectives []*MergeDirective
	// MergeSourceReferences lists merge directives whose source path ends at this property.
	MergeSourceReferences []*MergeDirective

	// Simple type facets, kept as source text.
	MinLength     string
	MaxLength     string
	MinValue      string
	MaxValue      string
	TotalDigits   string
	DecimalPlaces string

	Data      map[string]any
	SourceMap PropertySourceMap

	frozen bool
}

// MergeDirective unifies a reference property's path with another path on the same entity.
type MergeDirective struct {
	SourcePropertyPathStrings []string
	TargetPropertyPathStrings []string

	// SourcePropertyChain and TargetPropertyChain are the resolved path properties.
	SourcePropertyChain []*EntityProperty
	TargetPropertyChain []*EntityProperty
	SourceProperty      *EntityProperty
	TargetProperty      *EntityProperty

	SourceMap SourceMap
}

// NewMergeDirective returns a directive with unresolved sentinel endpoints.
func NewMergeDirective(source, target []string) *MergeDirective {
	return &MergeDirective{
		SourcePropertyPathStrings: source,
		TargetPropertyPathStrings: target,
		SourcePropertyChain:       []*EntityProperty{},
		TargetPropertyChain:       []*EntityProperty{},
		SourceProperty:            NoEntityProperty,
		TargetProperty:            NoEntityProperty,
	}
}

// NewEntityProperty returns a default property of kind t.
func NewEntityProperty(t PropertyType) *EntityProperty {
	return &EntityProperty{
		Type:                  t,
		Namespace:             NoNamespace,
		ParentEntity:          NoTopLevelEntity,
		ReferencedEntity:      DefaultReferencedEntity(t),
		MergeDirectives:       []*MergeDirective{},
		MergeSourceReferences: []*MergeDirective{},
		Data:                  make(map[string]any),
	}
}

func NewAssociationProperty() *EntityProperty { return NewEntityProperty(PropertyTypeAssociation) }
func NewChoiceProperty() *EntityProperty { return NewEntityProperty(PropertyTypeChoice) }
func NewCommonProperty() *EntityProperty { return NewEntityProperty(PropertyTypeCommon) }
func NewInlineCommonProperty() *EntityProperty { return NewEntityProperty(PropertyTypeInlineCommon) }
func NewDescriptorProperty() *EntityProperty { return NewEntityProperty(PropertyTypeDescriptor) }
func NewDomainEntityProperty() *EntityProperty { return NewEntityProperty(PropertyTypeDomainEntity) }
func NewEnumerationProperty() *EntityProperty { return NewEntityProperty(PropertyTypeEnumeration) }
func NewSchoolYearEnumerationProperty() *EntityProperty {
	return NewEntityProperty(PropertyTypeSchoolYearEnumeration)
}
func NewSharedDecimalProperty() *EntityProperty { return NewEntityProperty(PropertyTypeSharedDecimal) }
func NewSharedIntegerProperty() *EntityProperty { return NewEntityProperty(PropertyTypeSharedInteger) }
func NewSharedShortProperty() *EntityProperty { return NewEntityProperty(PropertyTypeSharedShort) }
func NewSharedStringProperty() *EntityProperty { return NewEntityProperty(PropertyTypeSharedString) }

// DefaultReferencedEntity returns the sentinel a property of kind t starts with.
func DefaultReferencedEntity(t PropertyType) ModelElement {
	switch t {
	case PropertyTypeAssociation:
		return NoAssociation
	case PropertyTypeChoice:
		return NoChoice
	case PropertyTypeCommon:
		return NoCommon
	case PropertyTypeInlineCommon:
		return NoInlineCommon
	case PropertyTypeDescriptor:
		return NoDescriptor
	case PropertyTypeDomainEntity:
		return NoDomainEntity
	case PropertyTypeEnumeration, PropertyTypeSchoolYearEnumeration:
		return NoEnumeration
	case PropertyTypeSharedDecimal, PropertyTypeSharedInteger, PropertyTypeSharedShort, PropertyTypeSharedString:
		return NoSharedSimple
	}
	return NoTopLevelEntity
}

// ReferencedTypeName returns the name a reference enhancer resolves.
func (p *EntityProperty) ReferencedTypeName() string {
	if p.ReferencedType != "" {
		return p.ReferencedType
	}
	return p.MetaEdName
}

// IsCollection reports whether the property is a required or optional collection.
func (p *EntityProperty) IsCollection() bool {
	return p.IsRequiredCollection || p.IsOptionalCollection
}

// IsResolved reports whether ReferencedEntity has been set to a real element.
func (p *EntityProperty) IsResolved() bool {
	return !IsNoEntity(p.ReferencedEntity)
}

// ReferencedTopLevelEntity narrows ReferencedEntity. It returns false while unresolved.
func (p *EntityProperty) ReferencedTopLevelEntity() (*TopLevelEntity, bool) {
	if !p.IsResolved() {
		return nil, false
	}
	return AsTopLevelEntity(p.ReferencedEntity)
}

// SetReferencedEntity records the resolved target of a reference property.
func (p *EntityProperty) SetReferencedEntity(m ModelElement) {
	p.mustBeMutable()
	p.ReferencedEntity = m
	if m != nil && m.Base().IsDeprecated {
		p.ReferencedEntityDeprecated = true
	}
}

// FullPropertyName is the role name prefixed property name, unless the role name
// repeats the property name.
func (p *EntityProperty) FullPropertyName() string {
	if p.RoleName == "" || p.RoleName == p.MetaEdName {
		return p.MetaEdName
	}
	return p.RoleName + p.MetaEdName
}

// IsSentinel reports whether p is NoEntityProperty.
func (p *EntityProperty) IsSentinel() bool { return p.frozen }

func (p *EntityProperty) mustBeMutable() {
	if p.frozen {
		panic("model: cannot mutate sentinel entity property")
	}
}
