// Package seed 在启动时把本地目录中的学习资料导入数据库。
package seed

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"brainbytes-go/internal/service"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/subject"
)

// Materials 扫描 dir 导入学习资料（幂等），返回新建的数量。
// 目录结构为 dir/<学科>/<主题>.<扩展名>，直接位于 dir 下的文件归入 General。
// 文本文件直接作为内容；其他文件作为附件上传，由文本提取补全内容。
func Materials(ctx context.Context, dir string, svc service.MaterialService) (int, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Infof("seed: 目录 '%s' 不存在或不可用，跳过初始化导入", dir)
		return 0, nil
	}

	created := 0
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		sub := subjectFor(dir, path)
		topic := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))

		// 幂等检查：同学科同主题已存在则跳过
		existing, err := svc.List(ctx, sub)
		if err != nil {
			log.Warnf("seed: 查询已有资料失败: %s, err=%v", path, err)
			return nil
		}
		for _, m := range existing {
			if strings.EqualFold(m.Topic, topic) {
				return nil
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("seed: 读取文件失败: %s, err=%v", path, err)
			return nil
		}
		if len(bytes.TrimSpace(data)) == 0 {
			log.Infof("seed: 空文件跳过: %s", path)
			return nil
		}

		if isText(d.Name(), data) {
			if _, err := svc.Create(ctx, service.MaterialInput{Subject: sub, Topic: topic, Content: string(data)}); err != nil {
				log.Warnf("seed: 创建资料失败: %s, err=%v", path, err)
				return nil
			}
			created++
			return nil
		}

		m, err := svc.Create(ctx, service.MaterialInput{Subject: sub, Topic: topic, Content: "Attachment: " + d.Name()})
		if err != nil {
			log.Warnf("seed: 创建资料失败: %s, err=%v", path, err)
			return nil
		}
		created++
		contentType := mime.TypeByExtension(filepath.Ext(d.Name()))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if _, err := svc.UploadAttachment(ctx, m.ID, d.Name(), contentType, bytes.NewReader(data)); err != nil {
			if errors.Is(err, service.ErrUnavailable) {
				log.Warnf("seed: 对象存储未启用，附件未上传: %s", path)
			} else {
				log.Warnf("seed: 上传附件失败: %s, err=%v", path, err)
			}
		}
		return nil
	})
	if walkErr != nil {
		return created, walkErr
	}
	log.Infof("seed: 导入完成，新建 %d 条学习资料", created)
	return created, nil
}

// subjectFor 取 path 相对 dir 的第一级目录作为学科。
func subjectFor(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return subject.General.String()
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return subject.General.String()
	}
	return subject.Normalize(parts[0]).String()
}

func isText(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown", ".csv":
		return utf8.Valid(data)
	}
	return false
}
