package db

import (
	"time"

	"gorm.io/datatypes"
)

// RawMessage maps raw_messages. Rows are written by the collector.
type RawMessage struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SourceUniqueID    string    `gorm:"column:source_unique_id;type:text;not null;uniqueIndex"`
	SourceURL         *string   `gorm:"column:source_url;type:text"`
	ChannelName       string    `gorm:"column:channel_name;type:text;not null;default:''"`
	AuthorDisplayName *string   `gorm:"column:author_display_name;type:text"`
	RawText           string    `gorm:"column:raw_text;type:text;not null;default:''"`
	OCRText           *string   `gorm:"column:ocr_text;type:text"`
	OccurredAt        time.Time `gorm:"column:occurred_at;type:timestamptz;not null"`
	Status            string    `gorm:"column:status;type:raw_message_status;not null;default:pending"`
	AttemptCount      int       `gorm:"column:attempt_count;type:integer;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt         time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (RawMessage) TableName() string { return "raw_messages" }

// Capper maps capper_directory.
type Capper struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CanonicalName string    `gorm:"column:canonical_name;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Capper) TableName() string { return "capper_directory" }

// StandardizedPick maps standardized_picks. The signature columns carry a
// unique index created after auto-migrate.
type StandardizedPick struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement"`
	CapperID       int64          `gorm:"column:capper_id;type:bigint;not null;index"`
	PickDate       time.Time      `gorm:"column:pick_date;type:date;not null;index"`
	League         string         `gorm:"column:league;type:text;not null"`
	BetType        string         `gorm:"column:bet_type;type:text;not null"`
	PickValue      string         `gorm:"column:pick_value;type:text;not null"`
	Unit           *float64       `gorm:"column:unit;type:numeric(6,2)"`
	OddsAmerican   *int           `gorm:"column:odds_american;type:integer"`
	Result         string         `gorm:"column:result;type:pick_result;not null;default:pending"`
	SourceURL      *string        `gorm:"column:source_url;type:text"`
	SourceUniqueID *string        `gorm:"column:source_unique_id;type:text"`
	RawMessageID   int64          `gorm:"column:raw_message_id;type:bigint;not null;index"`
	RunID          *string        `gorm:"column:run_id;type:uuid"`
	Extraction     datatypes.JSON `gorm:"column:extraction;type:jsonb"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (StandardizedPick) TableName() string { return "standardized_picks" }

func autoMigrateModels() []any {
	return []any{
		&RawMessage{},
		&Capper{},
		&StandardizedPick{},
	}
}
