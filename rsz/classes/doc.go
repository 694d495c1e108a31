// Package classes is the compiled-in table of engine classes the decoder
// understands: collision user data and monster reward tables.
//
// Each class is a TypeDescriptor whose binder produces a pointer to the Go
// struct of the same name, so decoded instances can be probed with rsz.As:
//
//	if shape, ok := rsz.As[*classes.EmHitDamageShapeData](inst); ok {
//		use(shape.Meat)
//	}
package classes

import "github.com/meigma/reasset/rsz"

// Types returns every class in registration order.
func Types() []*rsz.TypeDescriptor {
	return []*rsz.TypeDescriptor{
		PhysicsUserDataType,
		RequestSetColliderUserDataType,
		EmHitDamageRSDataType,
		EmHitDamageShapeDataType,
		MonsterLotTableUserDataParamType,
		MonsterLotTableUserDataType,
		EnemyDropItemInfoType,
		EnemyDropItemTableDataType,
		EnemyDropItemInfoDataType,
		PartsBreakGroupConditionInfoType,
		EnemyPartsBreakRewardInfoType,
		EnemyPartsBreakRewardDataType,
		PartsTypeTextInfoType,
		PartsTypeInfoType,
		PartsTypeTextUserDataType,
	}
}

// Register adds every class to reg.
func Register(reg *rsz.Registry) error {
	return reg.Register(Types()...)
}

// NewRegistry returns a registry holding every class.
func NewRegistry() (*rsz.Registry, error) {
	return rsz.NewRegistry(Types()...)
}
