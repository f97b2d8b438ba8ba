package jobs

// 任务名称常量.
const (
	JobOrphanSweep = "vault.orphan_sweep"
)
