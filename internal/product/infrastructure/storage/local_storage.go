// Package storage 提供上传图片的本地文件存储
package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowedExtensions 允许的图片扩展名
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// LocalStorage 本地磁盘图片存储
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage 创建本地存储实例，确保目录存在
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir 返回本地存储目录，用于静态托管
func (s *LocalStorage) Dir() string { return s.dir }

// Save 保存上传文件，返回对外访问 URI
func (s *LocalStorage) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
