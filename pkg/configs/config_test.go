package configs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/configs"
)

// TestInitConfigDefaults 测试目录中没有配置文件时使用默认值.
func TestInitConfigDefaults(t *testing.T) {
	require.NoError(t, configs.InitConfig(t.TempDir()))

	cfg := configs.GetConfig()
	assert.Equal(t, configs.SQLite, cfg.DB.Type)
	assert.Equal(t, configs.DefaultPort, cfg.Server.Port)
	assert.Equal(t, configs.DefaultSessionTTL, cfg.Auth.SessionTTL)
	assert.Equal(t, configs.DefaultBlobTimeout, cfg.Vault.GetBlobTimeout())
	assert.Equal(t, configs.MQTypeGoChannel, cfg.MQ.Type)
	assert.Equal(t, "memory", cfg.KV.Type)
}

// TestInitConfigFile 测试从 YAML 文件加载并覆盖默认值.
func TestInitConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 9000
db:
  type: mysql
  port: 3306
vault:
  blob_timeout: 5s
  cleanup_concurrency: 2
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	require.NoError(t, configs.InitConfig(dir))

	cfg := configs.GetConfig()
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, configs.MySQL, cfg.DB.Type)
	assert.Contains(t, cfg.DB.GetDSN(), "clientFoundRows=true")
	assert.Equal(t, 5*time.Second, cfg.Vault.BlobTimeout)
	assert.Equal(t, 2, cfg.Vault.CleanupConcurrency)
}

// TestInitConfigInvalid 测试非法配置被拒绝.
func TestInitConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("db:\n  type: oracle\n"), 0o600))

	assert.Error(t, configs.InitConfig(dir))
}

// TestInitConfigEnv 测试环境变量覆盖.
func TestInitConfigEnv(t *testing.T) {
	t.Setenv("FILEVAULT_SERVER_PORT", "7070")

	require.NoError(t, configs.InitConfig(t.TempDir()))
	assert.Equal(t, 7070, configs.GetConfig().Server.Port)
}

// TestDSN 测试不同数据库类型的 DSN 生成.
func TestDSN(t *testing.T) {
	pg := configs.DBConfig{Type: configs.Pg, Host: "db", Port: 5432, User: "u", Password: "p", Database: "fv", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=fv sslmode=disable", pg.GetDSN())
	assert.Equal(t, "PostgreSQL", pg.GetDBType())

	lite := configs.DBConfig{Type: configs.SQLite, Database: "data/fv.db"}
	assert.Equal(t, "file:data/fv.db", lite.GetDSN())
}
