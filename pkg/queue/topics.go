package queue

// 主题命名规范：fv.<域>.<动作>.
const (
	TopicFileStored    = "fv.file.stored"    // 文件对象与元数据均已写入
	TopicFileDeleted   = "fv.file.deleted"   // 文件元数据已删除（对象可能仍待清理）
	TopicFolderDeleted = "fv.folder.deleted" // 文件夹及其文件元数据已删除
	TopicBlobOrphaned  = "fv.blob.orphaned"  // 对象删除失败，已记入孤儿清理日志
)

// Topics 返回全部领域主题.
func Topics() []string {
	return []string{TopicFileStored, TopicFileDeleted, TopicFolderDeleted, TopicBlobOrphaned}
}
