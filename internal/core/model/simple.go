package model

// SharedSimple is a named, reusable simple type (shared decimal, integer, short or string).
type SharedSimple struct {
	ModelBase

	IsShort bool

	MinLength     string
	MaxLength     string
	MinValue      string
	MaxValue      string
	TotalDigits   string
	DecimalPlaces string

	InReferences []*EntityProperty
}

func newSharedSimple(t ModelType) *SharedSimple {
	return &SharedSimple{ModelBase: newModelBase(t), InReferences: []*EntityProperty{}}
}

func NewSharedDecimal() *SharedSimple { return newSharedSimple(ModelTypeSharedDecimal) }
func NewSharedInteger() *SharedSimple { return newSharedSimple(ModelTypeSharedInteger) }
func NewSharedString() *SharedSimple  { return newSharedSimple(ModelTypeSharedString) }

// NewSharedShort returns a shared integer restricted to the short range.
func NewSharedShort() *SharedSimple {
	s := newSharedSimple(ModelTypeSharedInteger)
	s.IsShort = true
	return s
}

// AsSharedSimple narrows m to a SharedSimple.
func AsSharedSimple(m ModelElement) (*SharedSimple, bool) {
	s, ok := m.(*SharedSimple)
	return s, ok && s != nil
}

// AddInReference records a property that resolved to this shared type.
func (s *SharedSimple) AddInReference(p *EntityProperty) {
	s.mustBeMutable()
	s.InReferences = append(s.InReferences, p)
}

// Domain groups entities for documentation; subdomains name a parent domain.
type Domain struct {
	ModelBase

	DomainItems         []*DomainItem
	FooterDocumentation string

	// ParentEntityName is set on subdomains only.
	ParentEntityName string
	ParentEntity     *Domain
	Subdomains       []*Domain
}

// DomainItem references an entity that belongs to a domain.
type DomainItem struct {
	MetaEdName              string
	ReferencedType          ModelType
	ReferencedNamespaceName string
	ReferencedEntity        ModelElement
	SourceMap               SourceMap
}

func NewDomain() *Domain {
	return &Domain{ModelBase: newModelBase(ModelTypeDomain), DomainItems: []*DomainItem{}, Subdomains: []*Domain{}}
}

func NewSubdomain() *Domain {
	return &Domain{ModelBase: newModelBase(ModelTypeSubdomain), DomainItems: []*DomainItem{}, Subdomains: []*Domain{}}
}

// NewDomainItem returns an unresolved item of the given kind.
func NewDomainItem(name string, t ModelType) *DomainItem {
	return &DomainItem{MetaEdName: name, ReferencedType: t, ReferencedEntity: NoTopLevelEntity}
}

// AsDomain narrows m to a Domain.
func AsDomain(m ModelElement) (*Domain, bool) {
	d, ok := m.(*Domain)
	return d, ok && d != nil
}

// Interchange groups entities that are exchanged together.
type Interchange struct {
	ModelBase

	Elements          []*InterchangeItem
	IdentityTemplates []*InterchangeItem

	BaseEntityName          string
	BaseEntityNamespaceName string
	BaseEntity              *Interchange
	ExtendedBy              []*Interchange
}

// InterchangeItem references an entity carried by an interchange.
type InterchangeItem struct {
	MetaEdName              string
	ReferencedType          ModelType
	ReferencedNamespaceName string
	ReferencedEntity        ModelElement
	SourceMap               SourceMap
}

func NewInterchange() *Interchange {
	return &Interchange{
		ModelBase:         newModelBase(ModelTypeInterchange),
		Elements:          []*InterchangeItem{},
		IdentityTemplates: []*InterchangeItem{},
		ExtendedBy:        []*Interchange{},
	}
}

func NewInterchangeExtension() *Interchange {
	i := NewInterchange()
	i.Type = ModelTypeInterchangeExtension
	return i
}

// NewInterchangeItem returns an unresolved item of the given kind.
func NewInterchangeItem(name string, t ModelType) *InterchangeItem {
	return &InterchangeItem{MetaEdName: name, ReferencedType: t, ReferencedEntity: NoTopLevelEntity}
}

// AsInterchange narrows m to an Interchange.
func AsInterchange(m ModelElement) (*Interchange, bool) {
	i, ok := m.(*Interchange)
	return i, ok && i != nil
}
