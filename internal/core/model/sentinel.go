package model

// Sentinels stand in for unresolved references so consumers never dereference nil.
// They are built once and frozen; the mutation helpers panic if handed one.
var (
	NoNamespace = func() *Namespace {
		ns := &Namespace{
			Entity:       NewEntityRepository(),
			Dependencies: []*Namespace{},
			Data:         map[string]any{},
		}
		ns.frozen = true
		return ns
	}()

	NoTopLevelEntity        = frozenEntity(ModelTypeUnknown)
	NoDomainEntity          = frozenEntity(ModelTypeDomainEntity)
	NoAssociation           = frozenEntity(ModelTypeAssociation)
	NoCommon                = frozenEntity(ModelTypeCommon)
	NoInlineCommon          = frozenEntity(ModelTypeInlineCommon)
	NoChoice                = frozenEntity(ModelTypeChoice)
	NoDescriptor            = frozenEntity(ModelTypeDescriptor)
	NoEnumeration           = frozenEntity(ModelTypeEnumeration)
	NoSchoolYearEnumeration = frozenEntity(ModelTypeSchoolYearEnumeration)

	NoSharedSimple = func() *SharedSimple {
		s := &SharedSimple{ModelBase: ModelBase{Type: ModelTypeUnknown, Namespace: NoNamespace}}
		s.frozen = true
		return s
	}()

	NoEntityProperty = func() *EntityProperty {
		p := &EntityProperty{
			Type:             PropertyTypeUnknown,
			Namespace:        NoNamespace,
			ParentEntity:     NoTopLevelEntity,
			ReferencedEntity: NoTopLevelEntity,
		}
		p.frozen = true
		return p
	}()
)

func frozenEntity(t ModelType) *TopLevelEntity {
	e := &TopLevelEntity{ModelBase: ModelBase{Type: t, Namespace: NoNamespace}}
	e.frozen = true
	return e
}
