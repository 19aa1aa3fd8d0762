package domain

import "time"

// AudioChunk is a contiguous slice of a Video's original audio file,
// produced by the Chunker when the original exceeds the configured size
// threshold. Chunks for a Video form an ordered, contiguous partition of
// the source audio.
type AudioChunk struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	VideoID   uint       `gorm:"column:video_id;not null;uniqueIndex:idx_chunk_video_index,priority:1"`
	Index     int        `gorm:"column:chunk_index;not null;uniqueIndex:idx_chunk_video_index,priority:2"`
	FilePath  string     `gorm:"column:file_path;type:varchar(1024);not null"`
	StartMS   int64      `gorm:"column:start_ms;not null"`
	EndMS     int64      `gorm:"column:end_ms;not null"`
	FileSize  int64      `gorm:"column:file_size;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (AudioChunk) TableName() string { return "audio_chunks" }
