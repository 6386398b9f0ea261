package model

// TopLevelEntity is the shared shape of every entity kind that carries properties:
// domain entities, associations, commons, descriptors, enumerations, choices,
// and their subclass and extension variants.
type TopLevelEntity struct {
	ModelBase

	Properties         []*EntityProperty
	IdentityProperties []*EntityProperty
	QueryableFields    []*EntityProperty

	AllowPrimaryKeyUpdates bool
	IsAbstract             bool

	// BaseEntityName names the entity a subclass or extension builds on.
	// BaseEntity stays nil until a base-class enhancer resolves it.
	BaseEntityName          string
	BaseEntityNamespaceName string
	BaseEntity              *TopLevelEntity

	ExtendedBy   []*TopLevelEntity
	SubclassedBy []*TopLevelEntity

	InReferences      []*EntityProperty
	OutReferences     []*EntityProperty
	OutReferencePaths [][]*EntityProperty

	// Enumeration and descriptor fields.
	EnumerationItems   []*EnumerationItem
	MapTypeEnumeration *TopLevelEntity
	IsMapTypeRequired  bool
	IsMapTypeOptional  bool

	EntitySourceMap EntitySourceMap
}

// EnumerationItem is a single value of an enumeration.
type EnumerationItem struct {
	ShortDescription  string
	Documentation     string
	MetaEdID          string
	TypeHumanizedName string
	SourceMap         SourceMap
}

// NewTopLevelEntity returns a default entity of kind t.
func NewTopLevelEntity(t ModelType) *TopLevelEntity {
	return &TopLevelEntity{
		ModelBase:          newModelBase(t),
		Properties:         []*EntityProperty{},
		IdentityProperties: []*EntityProperty{},
		QueryableFields:    []*EntityProperty{},
		ExtendedBy:         []*TopLevelEntity{},
		SubclassedBy:       []*TopLevelEntity{},
		InReferences:       []*EntityProperty{},
		OutReferences:      []*EntityProperty{},
		OutReferencePaths:  [][]*EntityProperty{},
		EnumerationItems:   []*EnumerationItem{},
		MapTypeEnumeration: NoEnumeration,
	}
}

func NewDomainEntity() *TopLevelEntity { return NewTopLevelEntity(ModelTypeDomainEntity) }
func NewDomainEntitySubclass() *TopLevelEntity { return NewTopLevelEntity(ModelTypeDomainEntitySubclass) }
func NewDomainEntityExtension() *TopLevelEntity { return NewTopLevelEntity(ModelTypeDomainEntityExtension) }
func NewAssociation() *TopLevelEntity { return NewTopLevelEntity(ModelTypeAssociation) }
func NewAssociationSubclass() *TopLevelEntity { return NewTopLevelEntity(ModelTypeAssociationSubclass) }
func NewAssociationExtension() *TopLevelEntity { return NewTopLevelEntity(ModelTypeAssociationExtension) }
func NewCommon() *TopLevelEntity { return NewTopLevelEntity(ModelTypeCommon) }
func NewCommonSubclass() *TopLevelEntity { return NewTopLevelEntity(ModelTypeCommonSubclass) }
func NewCommonExtension() *TopLevelEntity { return NewTopLevelEntity(ModelTypeCommonExtension) }
func NewInlineCommon() *TopLevelEntity { return NewTopLevelEntity(ModelTypeInlineCommon) }
func NewChoice() *TopLevelEntity { return NewTopLevelEntity(ModelTypeChoice) }
func NewDescriptor() *TopLevelEntity { return NewTopLevelEntity(ModelTypeDescriptor) }
func NewEnumeration() *TopLevelEntity { return NewTopLevelEntity(ModelTypeEnumeration) }
func NewMapTypeEnumeration() *TopLevelEntity { return NewTopLevelEntity(ModelTypeMapTypeEnumeration) }
func NewSchoolYearEnumeration() *TopLevelEntity { return NewTopLevelEntity(ModelTypeSchoolYearEnumeration) }

// AsTopLevelEntity narrows m to a TopLevelEntity.
func AsTopLevelEntity(m ModelElement) (*TopLevelEntity, bool) {
	e, ok := m.(*TopLevelEntity)
	return e, ok && e != nil
}

// AddProperty appends p to the entity, and to its identity and queryable lists
// when flagged, and sets p's parent back-reference.
func (e *TopLevelEntity) AddProperty(p *EntityProperty) {
	e.mustBeMutable()
	p.mustBeMutable()
	p.ParentEntity = e
	p.ParentEntityName = e.MetaEdName
	p.Namespace = e.Namespace
	e.Properties = append(e.Properties, p)
	if p.IsPartOfIdentity {
		e.IdentityProperties = append(e.IdentityProperties, p)
	}
	if p.IsQueryableField {
		e.QueryableFields = append(e.QueryableFields, p)
	}
}

// AddInReference records a property that resolved to this entity.
func (e *TopLevelEntity) AddInReference(p *EntityProperty) {
	e.mustBeMutable()
	e.InReferences = append(e.InReferences, p)
}

// AddOutReference records a resolved reference property owned by this entity.
func (e *TopLevelEntity) AddOutReference(p *EntityProperty) {
	e.mustBeMutable()
	e.OutReferences = append(e.OutReferences, p)
}

// AddExtendedBy records an extension of this entity.
func (e *TopLevelEntity) AddExtendedBy(extension *TopLevelEntity) {
	e.mustBeMutable()
	e.ExtendedBy = append(e.ExtendedBy, extension)
}

// AddSubclassedBy records a subclass of this entity.
func (e *TopLevelEntity) AddSubclassedBy(subclass *TopLevelEntity) {
	e.mustBeMutable()
	e.SubclassedBy = append(e.SubclassedBy, subclass)
}

// SetBaseEntity resolves the base entity reference.
func (e *TopLevelEntity) SetBaseEntity(base *TopLevelEntity) {
	e.mustBeMutable()
	e.BaseEntity = base
}

// AddOutReferencePath records a transitive chain of reference properties.
func (e *TopLevelEntity) AddOutReferencePath(path []*EntityProperty) {
	e.mustBeMutable()
	e.OutReferencePaths = append(e.OutReferencePaths, path)
}

// AllIdentityProperties returns the identity of the entity including
// identity inherited from a resolved base entity, base first.
func (e *TopLevelEntity) AllIdentityProperties() []*EntityProperty {
	if e.BaseEntity == nil || (!e.Type.IsSubclass() && !e.Type.IsExtension()) {
		return e.IdentityProperties
	}
	inherited := e.BaseEntity.AllIdentityProperties()
	result := make([]*EntityProperty, 0, len(inherited)+len(e.IdentityProperties))
	result = append(result, inherited...)
	return append(result, e.IdentityProperties...)
}

// PropertyNamed returns the property with the given role-qualified name.
func (e *TopLevelEntity) PropertyNamed(fullName string) (*EntityProperty, bool) {
	for _, p := range e.Properties {
		if p.FullPropertyName() == fullName {
			return p, true
		}
	}
	return nil, false
}
