package classes

import "github.com/meigma/reasset/rsz"

// PhysicsUserData is the base of all collider user data.
type PhysicsUserData struct {
	Name string
}

// RequestSetColliderUserData is attached to request sets.
type RequestSetColliderUserData struct {
	Name string
}

// EmHitDamageRSData is the user data of a monster hitbox group.
type EmHitDamageRSData struct {
	Base       PhysicsUserData
	PartsGroup uint16
}

// CustomShapeType selects an extended collider shape.
type CustomShapeType int32

const (
	CustomShapeNone CustomShapeType = iota
	CustomShapeCylinder
	CustomShapeHoledCylinder
	CustomShapeTrianglePole
	CustomShapeDonuts
	CustomShapeDonutsCylinder
)

// LimitedHitAttr restricts what a hit can trigger.
type LimitedHitAttr int32

const (
	LimitedHitNone LimitedHitAttr = iota
	LimitedHitStan
)

// HitSoundAttr selects the hit sound.
type HitSoundAttr int32

// BaseHitMarkType selects the hit marker.
type BaseHitMarkType int32

const (
	HitMarkNormal BaseHitMarkType = iota
	HitMarkModerate
	HitMarkMax
	HitMarkInvalid
)

// DamageAttr is a set of hitbox damage flags.
type DamageAttr uint16

const (
	DamageAllowDisable DamageAttr = 1 << iota
	DamageNoBreakConstObject
	DamageNoBreakConstObjectUnique
)

// EmHitDamageShapeData is the user data of a single monster hitbox.
type EmHitDamageShapeData struct {
	Base             PhysicsUserData
	CustomShapeType  CustomShapeType
	RingRadius       float32
	LimitedHitAttr   LimitedHitAttr
	HitSoundAttr     HitSoundAttr
	HitPosCorrection float32
	Meat             int32
	DamageAttr       DamageAttr
	BaseHitMarkType  BaseHitMarkType
}

var (
	zeroEnum = rsz.NewEnum("Zero", rsz.KindU32, map[int64]string{0: "Zero"})

	customShapeTypeEnum = rsz.NewEnum("snow.hit.CustomShapeType", rsz.KindS32, map[int64]string{
		0: "None", 1: "Cylinder", 2: "HoledCylinder", 3: "TrianglePole", 4: "Donuts", 5: "DonutsCylinder",
	})
	limitedHitAttrEnum = rsz.NewEnum("snow.hit.LimitedHitAttr", rsz.KindS32, map[int64]string{
		0: "None", 1: "LimitedStan",
	})
	hitSoundAttrEnum = rsz.NewEnum("snow.hit.HitSoundAttr", rsz.KindS32, map[int64]string{
		0: "Default", 1: "Silence", 2: "Yarn",
		3: "Em082BubbleBreakOnce", 4: "Em082OnibiBubbleBreakOnce",
		5: "Em082BubbleBreakMultiple", 6: "Em082BubbleBreakMultipleLast",
		7: "EnemyIndex036IceArm", 8: "EnemyIndex035FloatingRock", 9: "EnemyIndex038FloatingRock",
		10: "EnemyIndex042CarryRock", 11: "EnemyIndex042CaryyPot",
		12: "Max", 13: "Invalid",
	})
	baseHitMarkTypeEnum = rsz.NewEnum("snow.hit.BaseHitMarkType", rsz.KindS32, map[int64]string{
		0: "Normal", 1: "Moderate", 2: "Max", 3: "Invalid",
	})
	damageAttrFlags = rsz.NewFlags("snow.hit.DamageAttr", rsz.KindU16,
		rsz.FlagBit{Name: "AllowDisable", Value: uint64(DamageAllowDisable)},
		rsz.FlagBit{Name: "NoBreakConstObject", Value: uint64(DamageNoBreakConstObject)},
		rsz.FlagBit{Name: "NoBreakConstObjectUnique", Value: uint64(DamageNoBreakConstObjectUnique)},
	)
)

// Collision user data classes.
var (
	PhysicsUserDataType = rsz.Define("via.physics.UserData",
		[]rsz.FieldSpec{rsz.String("name")},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			v := bindPhysicsUserData(b)
			return &v, b.Err()
		}))

	RequestSetColliderUserDataType = rsz.Define("via.physics.RequestSetColliderUserData",
		[]rsz.FieldSpec{rsz.String("name"), rsz.Enum("zero", zeroEnum)},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &RequestSetColliderUserData{Name: rsz.Get[string](b, "name")}, b.Err()
		}))

	EmHitDamageRSDataType = rsz.Define("snow.hit.userdata.EmHitDamageRSData",
		[]rsz.FieldSpec{
			rsz.Inline("base", PhysicsUserDataType),
			rsz.U16("parts_group"),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EmHitDamageRSData{
				Base:       bindPhysicsUserData(b.Inline("base")),
				PartsGroup: rsz.Get[uint16](b, "parts_group"),
			}, b.Err()
		}))

	EmHitDamageShapeDataType = rsz.Define("snow.hit.userdata.EmHitDamageShapeData",
		[]rsz.FieldSpec{
			rsz.Inline("base", PhysicsUserDataType),
			rsz.Enum("custom_shape_type", customShapeTypeEnum),
			rsz.F32("ring_radius"),
			rsz.Enum("limited_hit_attr", limitedHitAttrEnum),
			rsz.Enum("hit_sound_attr", hitSoundAttrEnum),
			rsz.F32("hit_pos_correction"),
			rsz.S32("meat"),
			rsz.Flags("damage_attr", damageAttrFlags),
			rsz.Enum("base_hit_mark_type", baseHitMarkTypeEnum),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EmHitDamageShapeData{
				Base:             bindPhysicsUserData(b.Inline("base")),
				CustomShapeType:  rsz.EnumOf[CustomShapeType](b, "custom_shape_type"),
				RingRadius:       rsz.Get[float32](b, "ring_radius"),
				LimitedHitAttr:   rsz.EnumOf[LimitedHitAttr](b, "limited_hit_attr"),
				HitSoundAttr:     rsz.EnumOf[HitSoundAttr](b, "hit_sound_attr"),
				HitPosCorrection: rsz.Get[float32](b, "hit_pos_correction"),
				Meat:             rsz.Get[int32](b, "meat"),
				DamageAttr:       rsz.FlagsOf[DamageAttr](b, "damage_attr"),
				BaseHitMarkType:  rsz.EnumOf[BaseHitMarkType](b, "base_hit_mark_type"),
			}, b.Err()
		}))
)

func bindPhysicsUserData(b *rsz.Binder) PhysicsUserData {
	return PhysicsUserData{Name: rsz.Get[string](b, "name")}
}
