package configs

import "github.com/spf13/viper"

// EventsConfig 控制领域事件发布的开关（全局与分主题）.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	File    FileEventsConfig   `mapstructure:"file"`
	Folder  FolderEventsConfig `mapstructure:"folder"`
	Blob    BlobEventsConfig   `mapstructure:"blob"`
}

// FileEventsConfig 文件相关事件开关.
type FileEventsConfig struct {
	Stored  bool `mapstructure:"stored"`
	Deleted bool `mapstructure:"deleted"`
}

// FolderEventsConfig 文件夹相关事件开关.
type FolderEventsConfig struct {
	Deleted bool `mapstructure:"deleted"`
}

// BlobEventsConfig 对象清理相关事件开关.
type BlobEventsConfig struct {
	Orphaned bool `mapstructure:"orphaned"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	v.SetDefault("events.file.stored", true)
	v.SetDefault("events.file.deleted", true)
	v.SetDefault("events.folder.deleted", true)
	// 清理失败告警事件，供运维消费
	v.SetDefault("events.blob.orphaned", true)
}
