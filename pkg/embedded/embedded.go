// Package embedded 提供随程序打包的数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go），启动时通过 Init() 注入。
//
// 读取顺序：磁盘上的同名文件优先（便于调参），找不到时回退到嵌入副本。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	dataFS fs.FS
)

// Init 注入嵌入的数据文件系统，传入 nil 表示只读磁盘
func Init(data fs.FS) {
	mu.Lock()
	defer mu.Unlock()
	dataFS = data
}

// IsInitialized 返回是否已注入嵌入文件系统
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return dataFS != nil
}

// normalize 标准化为 embed.FS 使用的正斜杠相对路径
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// ReadFile 读取文件内容，磁盘优先，其次嵌入副本
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	mu.RLock()
	embeddedFS := dataFS
	mu.RUnlock()
	if embeddedFS == nil {
		return nil, err
	}

	data, embedErr := fs.ReadFile(embeddedFS, normalize(path))
	if embedErr != nil {
		return nil, fmt.Errorf("resource %s not found on disk or embedded: %w", path, embedErr)
	}
	return data, nil
}

// Exists 检查文件是否存在于磁盘或嵌入副本中
func Exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	mu.RLock()
	embeddedFS := dataFS
	mu.RUnlock()
	if embeddedFS == nil {
		return false
	}
	_, err := fs.Stat(embeddedFS, normalize(path))
	return err == nil
}
