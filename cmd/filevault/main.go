// Package main 启动应用程序
package main

import (
	"os"

	"github.com/yeisme/filevault/pkg/cmd"
)

//	@title			FileVault API
//	@version		1.0
//	@description	FileVault 是一个多用户文件存储服务，提供注册登录、文件夹管理与文件上传下载等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
