package classes

import (
	"math"

	"github.com/google/uuid"

	"github.com/meigma/reasset/rsz"
)

// QuestRank is the quest difficulty tier.
type QuestRank int32

const (
	QuestRankLow QuestRank = iota
	QuestRankHigh
)

// EnemyRewardPopTypes says where a reward comes from.
type EnemyRewardPopTypes int32

const (
	RewardNone EnemyRewardPopTypes = iota
	RewardMainBody
	RewardPartsLoss1
	RewardPartsLoss2
	RewardDropItem
	RewardDropItem2
	RewardDropItem3
	RewardDropItem4
	RewardDropItem5
	RewardDropItem6
	RewardUnique1
)

// BrokenPartsTypes is zero or a part id in 1..100.
type BrokenPartsTypes int32

// BreakLvTypes is the break level of a part.
type BreakLvTypes int32

// EmTypes identifies a monster. Any value is accepted.
type EmTypes uint32

// ItemID identifies an item. Any value is accepted.
type ItemID uint32

// MonsterLotTableUserDataParam is the reward table of one monster and rank.
type MonsterLotTableUserDataParam struct {
	EmTypes                         EmTypes
	QuestRank                       QuestRank
	TargetRewardItemIDList          []ItemID
	TargetRewardNumList             []uint32
	TargetRewardProbabilityList     []uint32
	EnemyRewardTypeList             []EnemyRewardPopTypes
	HagitoryRewardItemIDList        []ItemID
	HagitoryRewardNumList           []uint32
	HagitoryRewardProbabilityList   []uint32
	CaptureRewardItemIDList         []ItemID
	CaptureRewardNumList            []uint32
	CaptureRewardProbabilityList    []uint32
	PartsBreakList                  []BrokenPartsTypes
	PartsBreakLvList                []BreakLvTypes
	PartsBreakRewardItemIDList      []ItemID
	PartsBreakRewardNumList         []uint32
	PartsBreakRewardProbabilityList []uint32
	DropRewardTypeList              []EnemyRewardPopTypes
	DropRewardItemIDList            []ItemID
	DropRewardNumList               []uint32
	DropRewardProbabilityList       []uint32
	OtomoRewardItemIDList           []ItemID
	OtomoRewardNumList              []uint32
	OtomoRewardProbabilityList      []uint32
}

// MonsterLotTableUserData lists the reward tables of every monster.
type MonsterLotTableUserData struct {
	Param []*MonsterLotTableUserDataParam
}

// EnemyDropItemInfo is one possible drop.
type EnemyDropItemInfo struct {
	Percentage         uint32
	EnemyRewardPopType EnemyRewardPopTypes
	DropItemModelType  int32
}

// EnemyDropItemTableData is a weighted group of drops.
type EnemyDropItemTableData struct {
	Percentage            uint32
	EnemyDropItemInfoList []*EnemyDropItemInfo
	MaxNum                int32
}

// EnemyDropItemInfoData is the drop table of one monster.
type EnemyDropItemInfoData struct {
	EnemyDropItemTableDataTbl []*EnemyDropItemTableData
	MarionetteRewardPopType   EnemyRewardPopTypes
}

// PartsBreakGroupConditionInfo requires a part group to reach a break level.
type PartsBreakGroupConditionInfo struct {
	PartsGroup      uint16
	PartsBreakLevel uint16
}

// EnemyPartsBreakRewardDataConditionType combines break conditions.
type EnemyPartsBreakRewardDataConditionType int32

const (
	ConditionAll EnemyPartsBreakRewardDataConditionType = iota
	ConditionOther
)

// EnemyPartsBreakRewardInfo maps break conditions to a broken part id.
type EnemyPartsBreakRewardInfo struct {
	PartsBreakConditionList []*PartsBreakGroupConditionInfo
	ConditionType           EnemyPartsBreakRewardDataConditionType
	BrokenPartsType         BrokenPartsTypes
}

// EnemyPartsBreakRewardData lists the part break rewards of one monster.
type EnemyPartsBreakRewardData struct {
	EnemyPartsBreakRewardInfos []*EnemyPartsBreakRewardInfo
}

// PartsTypeTextInfo names a broken part for a set of monsters.
type PartsTypeTextInfo struct {
	EnemyTypeList      []EmTypes
	Text               uuid.UUID
	TextForMonsterList uuid.UUID
}

// PartsTypeInfo groups the part names of one broken part id.
type PartsTypeInfo struct {
	BrokenPartsTypes BrokenPartsTypes
	TextInfos        []*PartsTypeTextInfo
}

// PartsTypeTextUserData is the part name table.
type PartsTypeTextUserData struct {
	Params []*PartsTypeInfo
}

var (
	questRankEnum = rsz.NewEnum("snow.enemy.QuestRank", rsz.KindS32, map[int64]string{
		0: "Low", 1: "High",
	})
	rewardPopEnum = rsz.NewEnum("snow.enemy.EnemyRewardPopTypes", rsz.KindS32, map[int64]string{
		0: "None", 1: "MainBody", 2: "PartsLoss1", 3: "PartsLoss2",
		4: "DropItem", 5: "DropItem2", 6: "DropItem3", 7: "DropItem4", 8: "DropItem5", 9: "DropItem6",
		10: "Unique1",
	})
	brokenPartsEnum = rsz.NewEnum("snow.data.PartsBreakInfo.BrokenPartsTypes", rsz.KindS32,
		map[int64]string{0: "None"},
		rsz.EnumRange{Name: "RandomId", Min: 1, Max: 100})
	breakLvEnum = rsz.NewEnum("snow.data.BreakLvTypes", rsz.KindS32, map[int64]string{
		0: "None", 1: "Lv1",
	})
	emTypesEnum = rsz.NewEnum("snow.enemy.EnemyDef.EmTypes", rsz.KindU32, nil,
		rsz.EnumRange{Name: "Em", Min: 0, Max: math.MaxUint32})
	itemIDEnum = rsz.NewEnum("snow.data.ContentsIdSystem.ItemId", rsz.KindU32, nil,
		rsz.EnumRange{Name: "Item", Min: 0, Max: math.MaxUint32})
	conditionTypeEnum = rsz.NewEnum("snow.enemy.EnemyPartsBreakRewardData.ConditionType", rsz.KindS32,
		map[int64]string{0: "All", 1: "Other"})
)

func rewardLists(prefix string) []rsz.FieldSpec {
	return []rsz.FieldSpec{
		rsz.Seq(prefix+"_reward_item_id_list", rsz.Enum("", itemIDEnum)),
		rsz.Seq(prefix+"_reward_num_list", rsz.U32("")),
		rsz.Seq(prefix+"_reward_probability_list", rsz.U32("")),
	}
}

func lotParamFields() []rsz.FieldSpec {
	fields := []rsz.FieldSpec{
		rsz.Enum("em_types", emTypesEnum),
		rsz.Enum("quest_rank", questRankEnum),
	}
	fields = append(fields, rewardLists("target")...)
	fields = append(fields, rsz.Seq("enemy_reward_type_list", rsz.Enum("", rewardPopEnum)))
	fields = append(fields, rewardLists("hagitory")...)
	fields = append(fields, rewardLists("capture")...)
	fields = append(fields,
		rsz.Seq("parts_break_list", rsz.Enum("", brokenPartsEnum)),
		rsz.Seq("parts_break_lv_list", rsz.Enum("", breakLvEnum)),
	)
	fields = append(fields, rewardLists("parts_break")...)
	fields = append(fields,
		rsz.Array("parts_break_reward_type_list", 0, rsz.Enum("", rewardPopEnum)),
		rsz.Seq("drop_reward_type_list", rsz.Enum("", rewardPopEnum)),
	)
	fields = append(fields, rewardLists("drop")...)
	fields = append(fields, rewardLists("otomo")...)
	return fields
}

// Monster reward table classes.
var (
	MonsterLotTableUserDataParamType = rsz.Define("snow.data.MonsterLotTableUserData.Param",
		lotParamFields(),
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &MonsterLotTableUserDataParam{
				EmTypes:                         rsz.EnumOf[EmTypes](b, "em_types"),
				QuestRank:                       rsz.EnumOf[QuestRank](b, "quest_rank"),
				TargetRewardItemIDList:          rsz.EnumSlice[ItemID](b, "target_reward_item_id_list"),
				TargetRewardNumList:             rsz.Slice[uint32](b, "target_reward_num_list"),
				TargetRewardProbabilityList:     rsz.Slice[uint32](b, "target_reward_probability_list"),
				EnemyRewardTypeList:             rsz.EnumSlice[EnemyRewardPopTypes](b, "enemy_reward_type_list"),
				HagitoryRewardItemIDList:        rsz.EnumSlice[ItemID](b, "hagitory_reward_item_id_list"),
				HagitoryRewardNumList:           rsz.Slice[uint32](b, "hagitory_reward_num_list"),
				HagitoryRewardProbabilityList:   rsz.Slice[uint32](b, "hagitory_reward_probability_list"),
				CaptureRewardItemIDList:         rsz.EnumSlice[ItemID](b, "capture_reward_item_id_list"),
				CaptureRewardNumList:            rsz.Slice[uint32](b, "capture_reward_num_list"),
				CaptureRewardProbabilityList:    rsz.Slice[uint32](b, "capture_reward_probability_list"),
				PartsBreakList:                  rsz.EnumSlice[BrokenPartsTypes](b, "parts_break_list"),
				PartsBreakLvList:                rsz.EnumSlice[BreakLvTypes](b, "parts_break_lv_list"),
				PartsBreakRewardItemIDList:      rsz.EnumSlice[ItemID](b, "parts_break_reward_item_id_list"),
				PartsBreakRewardNumList:         rsz.Slice[uint32](b, "parts_break_reward_num_list"),
				PartsBreakRewardProbabilityList: rsz.Slice[uint32](b, "parts_break_reward_probability_list"),
				DropRewardTypeList:              rsz.EnumSlice[EnemyRewardPopTypes](b, "drop_reward_type_list"),
				DropRewardItemIDList:            rsz.EnumSlice[ItemID](b, "drop_reward_item_id_list"),
				DropRewardNumList:               rsz.Slice[uint32](b, "drop_reward_num_list"),
				DropRewardProbabilityList:       rsz.Slice[uint32](b, "drop_reward_probability_list"),
				OtomoRewardItemIDList:           rsz.EnumSlice[ItemID](b, "otomo_reward_item_id_list"),
				OtomoRewardNumList:              rsz.Slice[uint32](b, "otomo_reward_num_list"),
				OtomoRewardProbabilityList:      rsz.Slice[uint32](b, "otomo_reward_probability_list"),
			}, b.Err()
		}))

	MonsterLotTableUserDataType = rsz.Define("snow.data.MonsterLotTableUserData",
		[]rsz.FieldSpec{rsz.Seq("param", rsz.ObjectRef("", "snow.data.MonsterLotTableUserData.Param"))},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &MonsterLotTableUserData{
				Param: rsz.Slice[*MonsterLotTableUserDataParam](b, "param"),
			}, b.Err()
		}))

	EnemyDropItemInfoType = rsz.Define("snow.enemy.EnemyDropItemInfoData.EnemyDropItemTableData.EnemyDropItemInfo",
		[]rsz.FieldSpec{
			rsz.U32("percentage"),
			rsz.Enum("enemy_reward_pop_type", rewardPopEnum),
			rsz.S32("drop_item_model_type"),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EnemyDropItemInfo{
				Percentage:         rsz.Get[uint32](b, "percentage"),
				EnemyRewardPopType: rsz.EnumOf[EnemyRewardPopTypes](b, "enemy_reward_pop_type"),
				DropItemModelType:  rsz.Get[int32](b, "drop_item_model_type"),
			}, b.Err()
		}))

	EnemyDropItemTableDataType = rsz.Define("snow.enemy.EnemyDropItemInfoData.EnemyDropItemTableData",
		[]rsz.FieldSpec{
			rsz.U32("percentage"),
			rsz.Seq("enemy_drop_item_info_list", rsz.ObjectRef("", EnemyDropItemInfoType.Name)),
			rsz.S32("max_num"),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EnemyDropItemTableData{
				Percentage:            rsz.Get[uint32](b, "percentage"),
				EnemyDropItemInfoList: rsz.Slice[*EnemyDropItemInfo](b, "enemy_drop_item_info_list"),
				MaxNum:                rsz.Get[int32](b, "max_num"),
			}, b.Err()
		}))

	EnemyDropItemInfoDataType = rsz.Define("snow.enemy.EnemyDropItemInfoData",
		[]rsz.FieldSpec{
			rsz.Seq("enemy_drop_item_table_data_tbl", rsz.ObjectRef("", EnemyDropItemTableDataType.Name)),
			rsz.Enum("marionette_rewad_pop_type", rewardPopEnum),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EnemyDropItemInfoData{
				EnemyDropItemTableDataTbl: rsz.Slice[*EnemyDropItemTableData](b, "enemy_drop_item_table_data_tbl"),
				MarionetteRewardPopType:   rsz.EnumOf[EnemyRewardPopTypes](b, "marionette_rewad_pop_type"),
			}, b.Err()
		}))

	PartsBreakGroupConditionInfoType = rsz.Define(
		"snow.enemy.EnemyPartsBreakRewardData.EnemyPartsBreakRewardInfo.PartsBreakGroupConditionInfo",
		[]rsz.FieldSpec{rsz.U16("parts_group"), rsz.U16("parts_break_level")},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &PartsBreakGroupConditionInfo{
				PartsGroup:      rsz.Get[uint16](b, "parts_group"),
				PartsBreakLevel: rsz.Get[uint16](b, "parts_break_level"),
			}, b.Err()
		}))

	EnemyPartsBreakRewardInfoType = rsz.Define("snow.enemy.EnemyPartsBreakRewardData.EnemyPartsBreakRewardInfo",
		[]rsz.FieldSpec{
			rsz.Seq("parts_break_condition_list", rsz.ObjectRef("", PartsBreakGroupConditionInfoType.Name)),
			rsz.Enum("condition_type", conditionTypeEnum),
			rsz.Enum("broken_parts_type", brokenPartsEnum),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EnemyPartsBreakRewardInfo{
				PartsBreakConditionList: rsz.Slice[*PartsBreakGroupConditionInfo](b, "parts_break_condition_list"),
				ConditionType:           rsz.EnumOf[EnemyPartsBreakRewardDataConditionType](b, "condition_type"),
				BrokenPartsType:         rsz.EnumOf[BrokenPartsTypes](b, "broken_parts_type"),
			}, b.Err()
		}))

	EnemyPartsBreakRewardDataType = rsz.Define("snow.enemy.EnemyPartsBreakRewardData",
		[]rsz.FieldSpec{
			rsz.Seq("enemy_parts_break_reward_infos", rsz.ObjectRef("", EnemyPartsBreakRewardInfoType.Name)),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &EnemyPartsBreakRewardData{
				EnemyPartsBreakRewardInfos: rsz.Slice[*EnemyPartsBreakRewardInfo](b, "enemy_parts_break_reward_infos"),
			}, b.Err()
		}))

	PartsTypeTextInfoType = rsz.Define("snow.data.PartsTypeTextUserData.TextInfo",
		[]rsz.FieldSpec{
			rsz.Seq("enemy_type_list", rsz.Enum("", emTypesEnum)),
			rsz.Align(8),
			rsz.GUID("text"),
			rsz.GUID("text_for_monster_list"),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &PartsTypeTextInfo{
				EnemyTypeList:      rsz.EnumSlice[EmTypes](b, "enemy_type_list"),
				Text:               rsz.Get[uuid.UUID](b, "text"),
				TextForMonsterList: rsz.Get[uuid.UUID](b, "text_for_monster_list"),
			}, b.Err()
		}))

	PartsTypeInfoType = rsz.Define("snow.data.PartsTypeTextUserData.PartsTypeInfo",
		[]rsz.FieldSpec{
			rsz.Enum("broken_parts_types", brokenPartsEnum),
			rsz.Seq("text_infos", rsz.ObjectRef("", PartsTypeTextInfoType.Name)),
		},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &PartsTypeInfo{
				BrokenPartsTypes: rsz.EnumOf[BrokenPartsTypes](b, "broken_parts_types"),
				TextInfos:        rsz.Slice[*PartsTypeTextInfo](b, "text_infos"),
			}, b.Err()
		}))

	PartsTypeTextUserDataType = rsz.Define("snow.data.PartsTypeTextUserData",
		[]rsz.FieldSpec{rsz.Seq("params", rsz.ObjectRef("", PartsTypeInfoType.Name))},
		rsz.WithBinder(func(inst *rsz.Instance) (any, error) {
			b := rsz.NewBinder(&inst.Object)
			return &PartsTypeTextUserData{
				Params: rsz.Slice[*PartsTypeInfo](b, "params"),
			}, b.Err()
		}))
)
