package domain

import "time"

type DownloadStatus string

const (
	DownloadStatusPending     DownloadStatus = "pending"
	DownloadStatusDownloading DownloadStatus = "downloading"
	DownloadStatusCompleted   DownloadStatus = "completed"
	DownloadStatusFailed      DownloadStatus = "failed"
)

// Video is a YouTube source video identified by its 11-character external id.
type Video struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	ExternalID   string         `gorm:"column:external_id;type:varchar(11);uniqueIndex;not null"`
	Title        string         `gorm:"column:title;type:varchar(512);not null"`
	ThumbnailURL string         `gorm:"column:thumbnail_url;type:varchar(1024)"`
	AudioPath    string         `gorm:"column:audio_path;type:varchar(1024)"`
	Status       DownloadStatus `gorm:"column:status;type:varchar(16);not null;default:pending"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`

	// No DB-level foreign-key cascade: VideoStore.Delete removes these
	// explicitly within a transaction.
	Chunks         []AudioChunk    `gorm:"foreignKey:VideoID"`
	Transcriptions []Transcription `gorm:"foreignKey:VideoID"`
}

func (Video) TableName() string { return "videos" }
