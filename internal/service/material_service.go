package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"brainbytes-go/internal/model"
	"brainbytes-go/internal/repository"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/storage"
)

// TextExtractor 从附件中提取纯文本，由 tika.Client 实现。
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.Reader, fileName string) (string, error)
}

// MaterialInput 是创建学习资料的输入。
type MaterialInput struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// AttachmentURL 是附件的临时下载地址。
type AttachmentURL struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// MaterialService 定义了学习资料相关的业务操作。
type MaterialService interface {
	Create(ctx context.Context, in MaterialInput) (*model.LearningMaterial, error)
	List(ctx context.Context, subject string) ([]model.LearningMaterial, error)
	// UploadAttachment 保存附件到对象存储，并把提取出的文本追加到资料内容。
	UploadAttachment(ctx context.Context, id uint, fileName, contentType string, r io.Reader) (*model.LearningMaterial, error)
	AttachmentURL(ctx context.Context, id uint) (*AttachmentURL, error)
}

type materialService struct {
	materialRepo repository.MaterialRepository
	store        storage.AttachmentStore
	extractor    TextExtractor
}

// NewMaterialService 创建一个新的 MaterialService。store 与 extractor 可以为 nil。
func NewMaterialService(materialRepo repository.MaterialRepository, store storage.AttachmentStore, extractor TextExtractor) MaterialService {
	return &materialService{materialRepo: materialRepo, store: store, extractor: extractor}
}

func (s *materialService) Create(ctx context.Context, in MaterialInput) (*model.LearningMaterial, error) {
	m := &model.LearningMaterial{
		Subject: strings.TrimSpace(in.Subject),
		Topic:   strings.TrimSpace(in.Topic),
		Content: in.Content,
	}
	if m.Subject == "" || m.Topic == "" || strings.TrimSpace(m.Content) == "" {
		return nil, fmt.Errorf("%w: subject, topic and content are required", ErrInvalidInput)
	}
	if err := s.materialRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return m, nil
}

func (s *materialService) List(ctx context.Context, subject string) ([]model.LearningMaterial, error) {
	materials, err := s.materialRepo.FindAll(ctx, strings.TrimSpace(subject))
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

func (s *materialService) UploadAttachment(ctx context.Context, id uint, fileName, contentType string, r io.Reader) (*model.LearningMaterial, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: object storage is disabled", ErrUnavailable)
	}
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 对象存储与文本提取各读一次，先缓存到内存
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: attachment is empty", ErrInvalidInput)
	}

	objectName := fmt.Sprintf("materials/%d/%s", m.ID, fileName)
	if err := s.store.Put(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}
	m.AttachmentObject = objectName
	m.AttachmentName = fileName

	if s.extractor != nil {
		text, err := s.extractor.ExtractText(ctx, bytes.NewReader(data), fileName)
		if err != nil {
			// 提取失败不影响附件本身
			log.Warnf("[MaterialService] 附件文本提取失败, Object: %s, Error: %v", objectName, err)
		} else if text != "" {
			m.Content = strings.TrimRight(m.Content, "\n") + "\n\n" + text
		}
	}

	if err := s.materialRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	log.Infof("[MaterialService] 附件已上传, MaterialID: %d, Object: %s, Size: %d", m.ID, objectName, len(data))
	return m, nil
}

func (s *materialService) AttachmentURL(ctx context.Context, id uint) (*AttachmentURL, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: object storage is disabled", ErrUnavailable)
	}
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.AttachmentObject == "" {
		return nil, fmt.Errorf("%w: material has no attachment", ErrNotFound)
	}
	url, err := s.store.PresignedURL(ctx, m.AttachmentObject)
	if err != nil {
		return nil, fmt.Errorf("failed to presign attachment: %w", err)
	}
	return &AttachmentURL{FileName: m.AttachmentName, URL: url}, nil
}
