// Package modeltest builds in-memory MetaEd models for tests without going
// through model files.
package modeltest

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/metaed-lang/metaed/internal/core/model"
)

// Builder adds namespaces, entities and properties to an environment. Calls
// chain: each entity call makes that entity current, and property calls add
// to the current entity.
type Builder struct {
	metaEd *model.MetaEdEnvironment
	ns     *model.Namespace
	entity *model.TopLevelEntity
}

// New returns a builder over metaEd.
func New(metaEd *model.MetaEdEnvironment) *Builder {
	return &Builder{metaEd: metaEd}
}

// Environment returns a fresh environment with the data standard version set.
func Environment(dataStandardVersion string) *model.MetaEdEnvironment {
	metaEd := model.NewMetaEdEnvironment()
	metaEd.DataStandardVersion = dataStandardVersion
	return metaEd
}

// Namespace makes the named namespace current, creating it when needed. A
// namespace created with dependencies is an extension namespace.
func (b *Builder) Namespace(name string, dependencies ...string) *Builder {
	ns, ok := b.metaEd.Namespace[name]
	if !ok {
		ns = model.NewNamespace(name)
		ns.ProjectName = name
		if len(dependencies) > 0 {
			ns.IsExtension = true
			ns.ProjectExtension = name
		}
		for _, depName := range dependencies {
			dep, ok := b.metaEd.Namespace[depName]
			if !ok {
				panic(fmt.Sprintf("modeltest: unknown dependency %q", depName))
			}
			if err := ns.AddDependency(dep); err != nil {
				panic(err)
			}
		}
		b.metaEd.AddNamespace(ns)
	}
	b.ns = ns
	b.entity = nil
	return b
}

func (b *Builder) add(t model.ModelType, name string) *Builder {
	if b.ns == nil {
		panic("modeltest: no current namespace")
	}
	e := model.NewTopLevelEntity(t)
	e.MetaEdName = name
	b.ns.AddEntity(e)
	b.entity = e
	return b
}

func (b *Builder) DomainEntity(name string) *Builder { return b.add(model.ModelTypeDomainEntity, name) }
func (b *Builder) Association(name string) *Builder { return b.add(model.ModelTypeAssociation, name) }
func (b *Builder) Common(name string) *Builder { return b.add(model.ModelTypeCommon, name) }
func (b *Builder) InlineCommon(name string) *Builder { return b.add(model.ModelTypeInlineCommon, name) }
func (b *Builder) Choice(name string) *Builder { return b.add(model.ModelTypeChoice, name) }
func (b *Builder) Descriptor(name string) *Builder { return b.add(model.ModelTypeDescriptor, name) }
func (b *Builder) Enumeration(name string) *Builder { return b.add(model.ModelTypeEnumeration, name) }
func (b *Builder) SchoolYearEnumeration() *Builder {
	return b.add(model.ModelTypeSchoolYearEnumeration, "SchoolYear")
}

// AbstractEntity adds an abstract domain entity.
func (b *Builder) AbstractEntity(name string) *Builder {
	b.add(model.ModelTypeDomainEntity, name)
	b.entity.IsAbstract = true
	return b
}

// DomainEntitySubclass adds a subclass of base, which may be "Namespace.Name".
func (b *Builder) DomainEntitySubclass(name, base string) *Builder {
	return b.derived(model.ModelTypeDomainEntitySubclass, name, base)
}

func (b *Builder) AssociationSubclass(name, base string) *Builder {
	return b.derived(model.ModelTypeAssociationSubclass, name, base)
}

// DomainEntityExtension adds an extension of base, which may be "Namespace.Name".
func (b *Builder) DomainEntityExtension(base string) *Builder {
	return b.derived(model.ModelTypeDomainEntityExtension, "", base)
}

func (b *Builder) AssociationExtension(base string) *Builder {
	return b.derived(model.ModelTypeAssociationExtension, "", base)
}

func (b *Builder) CommonExtension(base string) *Builder {
	return b.derived(model.ModelTypeCommonExtension, "", base)
}

func (b *Builder) derived(t model.ModelType, name, base string) *Builder {
	namespace, baseName := b.ns.NamespaceName, base
	if i := strings.LastIndex(base, "."); i >= 0 {
		namespace, baseName = base[:i], base[i+1:]
	}
	if name == "" {
		name = baseName
	}
	b.add(t, name)
	b.entity.BaseEntityName = baseName
	b.entity.BaseEntityNamespaceName = namespace
	return b
}

// AllowPrimaryKeyUpdates marks the current entity.
func (b *Builder) AllowPrimaryKeyUpdates() *Builder {
	b.current().AllowPrimaryKeyUpdates = true
	return b
}

// Deprecated marks the current entity deprecated.
func (b *Builder) Deprecated() *Builder {
	b.current().IsDeprecated = true
	return b
}

// Items adds enumeration items to the current entity.
func (b *Builder) Items(shortDescriptions ...string) *Builder {
	e := b.current()
	for _, d := range shortDescriptions {
		e.EnumerationItems = append(e.EnumerationItems, &model.EnumerationItem{ShortDescription: d})
	}
	return b
}

// SharedString adds a shared string type to the current namespace.
func (b *Builder) SharedString(name, maxLength string) *Builder {
	s := model.NewSharedString()
	s.MetaEdName = name
	s.MaxLength = maxLength
	b.ns.AddEntity(s)
	return b
}

func (b *Builder) SharedInteger(name string) *Builder {
	s := model.NewSharedInteger()
	s.MetaEdName = name
	b.ns.AddEntity(s)
	return b
}

func (b *Builder) SharedShort(name string) *Builder {
	s := model.NewSharedShort()
	s.MetaEdName = name
	b.ns.AddEntity(s)
	return b
}

func (b *Builder) SharedDecimal(name, totalDigits, decimalPlaces string) *Builder {
	s := model.NewSharedDecimal()
	s.MetaEdName = name
	s.TotalDigits = totalDigits
	s.DecimalPlaces = decimalPlaces
	b.ns.AddEntity(s)
	return b
}

// Property adds a property of kind t to the current entity. A property with no
// cardinality option is required.
func (b *Builder) Property(t model.PropertyType, name string, opts ...PropertyOption) *Builder {
	e := b.current()
	p := model.NewEntityProperty(t)
	p.MetaEdName = name
	p.ReferencedNamespaceName = b.ns.NamespaceName
	for _, opt := range opts {
		opt(p)
	}
	if !p.IsPartOfIdentity && !p.IsRequired && !p.IsOptional && !p.IsCollection() {
		p.IsRequired = true
	}
	e.AddProperty(p)
	b.metaEd.PropertyIndex.Add(p)
	return b
}

// Entity returns the current entity.
func (b *Builder) Entity() *model.TopLevelEntity {
	return b.current()
}

// Get returns the named entity of type t from the current namespace.
func (b *Builder) Get(t model.ModelType, name string) *model.TopLevelEntity {
	e, ok := b.ns.Entity.Get(t, name)
	if !ok {
		panic(fmt.Sprintf("modeltest: no %s %q in %s", t, name, b.ns.NamespaceName))
	}
	tle, _ := model.AsTopLevelEntity(e)
	return tle
}

func (b *Builder) current() *model.TopLevelEntity {
	if b.entity == nil {
		panic("modeltest: no current entity")
	}
	return b.entity
}

// DataKeys lists, for every namespace and top-level entity, the plugin names
// present in its Data bag, sorted. Tests compare it before and after
// enhancers to check what plugins attached to the model.
func DataKeys(metaEd *model.MetaEdEnvironment) map[string][]string {
	result := map[string][]string{}
	for _, ns := range metaEd.Namespaces() {
		result[ns.NamespaceName] = slices.Sorted(maps.Keys(ns.Data))
		for _, e := range ns.Entity.TopLevelEntities(model.TopLevelEntityModelTypes...) {
			key := fmt.Sprintf("%s.%s (%s)", ns.NamespaceName, e.MetaEdName, e.Type)
			result[key] = slices.Sorted(maps.Keys(e.Data))
		}
	}
	return result
}

// PropertyOption configures a property added with Property.
type PropertyOption func(p *model.EntityProperty)

func Identity() PropertyOption { return func(p *model.EntityProperty) { p.IsPartOfIdentity = true } }
func Required() PropertyOption { return func(p *model.EntityProperty) { p.IsRequired = true } }
func Optional() PropertyOption { return func(p *model.EntityProperty) { p.IsOptional = true } }
func Queryable() PropertyOption {
	return func(p *model.EntityProperty) { p.IsQueryableField = true }
}
func RequiredCollection() PropertyOption {
	return func(p *model.EntityProperty) { p.IsRequiredCollection = true }
}
func OptionalCollection() PropertyOption {
	return func(p *model.EntityProperty) { p.IsOptionalCollection = true }
}

// Role sets the role name.
func Role(name string) PropertyOption { return func(p *model.EntityProperty) { p.RoleName = name } }

// In sets the declared referenced namespace.
func In(namespace string) PropertyOption {
	return func(p *model.EntityProperty) { p.ReferencedNamespaceName = namespace }
}

// Referencing sets the referenced type name when it differs from the property name.
func Referencing(typeName string) PropertyOption {
	return func(p *model.EntityProperty) { p.ReferencedType = typeName }
}

// MaxLength sets the string length facet.
func MaxLength(n string) PropertyOption { return func(p *model.EntityProperty) { p.MaxLength = n } }

// Decimal sets the decimal facets.
func Decimal(totalDigits, decimalPlaces string) PropertyOption {
	return func(p *model.EntityProperty) {
		p.TotalDigits = totalDigits
		p.DecimalPlaces = decimalPlaces
	}
}

// Merge adds a merge directive with dot separated source and target paths.
func Merge(source, target string) PropertyOption {
	return func(p *model.EntityProperty) {
		p.MergeDirectives = append(p.MergeDirectives, model.NewMergeDirective(strings.Split(source, "."), strings.Split(target, ".")))
	}
}

