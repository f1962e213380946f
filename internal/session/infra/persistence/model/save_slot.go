package model

import "time"

// SaveSlot 是 MySQL 里的一行存档。
type SaveSlot struct {
	PlayerID  int64     `gorm:"column:player_id;type:bigint;comment:玩家ID;primaryKey;not null;" json:"player_id"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;default:0;" json:"version"`
	Blob      []byte    `gorm:"column:blob;type:mediumblob;comment:编码后的存档;not null;" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (s *SaveSlot) TableName() string {
	return "save_slot"
}

// SaveDoc 是 MongoDB 里的一条存档，_id 就是玩家 id。
type SaveDoc struct {
	PlayerID  int64     `bson:"_id"`
	Version   uint64    `bson:"version"`
	Blob      []byte    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}
