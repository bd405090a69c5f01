package service

import (
	"ecom-support-go/internal/model"
	"ecom-support-go/internal/nlu"
)

// IntentService 把分类器以服务形式暴露给对话路由与 HTTP 层。
type IntentService interface {
	Classify(text string) model.ClassifyResult
}

type intentService struct {
	classifier *nlu.Classifier
}

// NewIntentService 创建一个新的 IntentService 实例。
func NewIntentService(classifier *nlu.Classifier) IntentService {
	return &intentService{classifier: classifier}
}

func (s *intentService) Classify(text string) model.ClassifyResult {
	return s.classifier.Classify(text)
}
