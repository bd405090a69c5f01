package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"ecom-support-go/internal/model"
	"ecom-support-go/internal/nlu"
	"ecom-support-go/internal/repository"
	"ecom-support-go/pkg/analytics"
	"ecom-support-go/pkg/keylock"
	"ecom-support-go/pkg/log"
)

// 用户可见的固定文案。业务规则拒绝的原因会被原样拼进响应，
// 内部故障一律只透出通用致歉语。
const (
	respFallback = "I'm sorry, I didn't quite understand that. Could you rephrase it? I can also connect you with a human agent."
	respApology  = "Sorry, something went wrong on our side. Please try again in a moment."

	respAskOrderID     = "Of course. Could you give me your order ID? It starts with ORD, for example ORD001."
	respInvalidOrderID = "That doesn't look like a valid order ID. Order IDs start with ORD followed by digits, for example ORD001."
	respOrderNotFound  = "Sorry, we couldn't find that order. Please double-check your order ID."

	respGreetingDefault = "Hello! How can I help you today?"
)

// EventPublisher 定义了交互事件的发布接口，由 Kafka 生产者实现。
type EventPublisher interface {
	PublishInteraction(ctx context.Context, ev analytics.InteractionEvent) error
}

// DialogueService 定义了对话编排的接口：接收一轮用户输入，
// 完成分类、分发、会话维护并产出响应。
type DialogueService interface {
	ProcessTurn(ctx context.Context, sessionID, utterance string) (*model.TurnResult, error)
	GetHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	ResetSession(ctx context.Context, sessionID string) error
}

type dialogueService struct {
	intentService IntentService
	faqService    FAQService
	orderService  OrderService
	responses     *ResponseService
	sessionRepo   repository.SessionRepository
	sessionLocks  *keylock.KeyedMutex
	metrics       *MetricsService
	publisher     EventPublisher // 为 nil 时不上报事件

	historyMax    int
	maxMessageLen int
}

// NewDialogueService 创建一个新的 DialogueService 实例。
// publisher 可以为 nil，此时交互事件上报被关闭。
func NewDialogueService(
	intentService IntentService,
	faqService FAQService,
	orderService OrderService,
	responses *ResponseService,
	sessionRepo repository.SessionRepository,
	metrics *MetricsService,
	publisher EventPublisher,
	historyMax int,
	maxMessageLen int,
) DialogueService {
	return &dialogueService{
		intentService: intentService,
		faqService:    faqService,
		orderService:  orderService,
		responses:     responses,
		sessionRepo:   sessionRepo,
		sessionLocks:  keylock.New(),
		metrics:       metrics,
		publisher:     publisher,
		historyMax:    historyMax,
		maxMessageLen: maxMessageLen,
	}
}

// ProcessTurn 处理一轮对话。
// 同一会话的多轮请求按 session id 串行化，不同会话互不阻塞。
// 校验失败（空消息、超长消息）以错误返回；下游组件的任何故障
// 都会在这里被兜住并转换成通用致歉响应，细节只进日志。
func (s *dialogueService) ProcessTurn(ctx context.Context, sessionID, utterance string) (*model.TurnResult, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, model.ErrEmptyMessage
	}
	if utf8.RuneCountInString(utterance) > s.maxMessageLen {
		return nil, model.ErrMessageTooLong
	}

	start := time.Now()

	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, model.ErrSessionNotFound) {
			// 会话存储故障时降级为全新会话继续服务，只丢上下文不丢响应
			log.Error("读取会话失败，降级为新会话", err)
		}
		sess = model.NewSession(sessionID)
	}

	result := s.intentService.Classify(utterance)
	log.Debugf("会话 %s 分类结果: intent=%s confidence=%.2f", sessionID, result.Intent, result.Confidence)

	response, success := s.dispatchSafely(ctx, sess, &result, utterance)

	sess.AppendTurn(utterance, response, s.historyMax)
	if err := s.sessionRepo.Save(ctx, sess); err != nil {
		// 只记录错误，响应已经生成，不能因为保存历史失败而丢掉它
		log.Error("保存会话失败", err)
	}

	elapsed := time.Since(start)
	s.metrics.Record(result.Intent, elapsed, success)
	s.publishEvent(sessionID, result, elapsed, success)

	return &model.TurnResult{
		SessionID:  sessionID,
		Response:   response,
		Intent:     result.Intent,
		Confidence: result.Confidence,
	}, nil
}

// dispatchSafely 执行意图分发，并把任何 panic 收敛为致歉响应。
func (s *dialogueService) dispatchSafely(ctx context.Context, sess *model.Session, result *model.ClassifyResult, utterance string) (response string, success bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("处理对话轮次时发生 panic: %v", r)
			response = respApology
			success = false
		}
	}()
	return s.dispatch(ctx, sess, result, utterance)
}

// dispatch 把分类结果路由到对应的处理分支。
// 每个声明的意图标签在这里都有且只有一个分支。
func (s *dialogueService) dispatch(ctx context.Context, sess *model.Session, result *model.ClassifyResult, utterance string) (string, bool) {
	intent := result.Intent

	// 上一轮在等用户补充订单号：本轮若带了订单号，续接原意图
	if intent == model.IntentUnknown || intent == model.IntentFAQ {
		if pending := sess.Context[model.CtxPendingIntent]; pending != "" {
			if id := nlu.ExtractOrderID(utterance); id != "" {
				intent = pending
				result.Intent = pending
				result.Entities[model.EntityOrderID] = id
			}
		}
	}

	switch intent {
	case model.IntentGreeting:
		delete(sess.Context, model.CtxPendingIntent)
		if text := s.responses.Generate(intent, result.Entities, sess.Turns()); text != "" {
			return text, true
		}
		return respGreetingDefault, true
	case model.IntentTrackOrder:
		return s.handleTrackOrder(ctx, sess, result)
	case model.IntentCancelItem:
		return s.handleCancelOrder(ctx, sess, result)
	default: // faq 与 unknown 都走检索
		return s.handleFAQ(ctx, utterance)
	}
}

// resolveOrderID 取本轮提取的订单号，缺失时回退到会话上下文中
// 最近提到的订单号（支持 "cancel it" 这类指代）。
func resolveOrderID(sess *model.Session, result *model.ClassifyResult) string {
	if id := result.Entities[model.EntityOrderID]; id != "" {
		return id
	}
	return sess.Context[model.CtxLastOrderID]
}

func (s *dialogueService) handleTrackOrder(ctx context.Context, sess *model.Session, result *model.ClassifyResult) (string, bool) {
	orderID := resolveOrderID(sess, result)
	if orderID == "" {
		sess.Context[model.CtxPendingIntent] = model.IntentTrackOrder
		return respAskOrderID, true
	}
	delete(sess.Context, model.CtxPendingIntent)

	order, err := s.orderService.GetOrder(ctx, orderID)
	switch {
	case errors.Is(err, model.ErrInvalidOrderID):
		return respInvalidOrderID, true
	case errors.Is(err, model.ErrOrderNotFound):
		return respOrderNotFound, true
	case err != nil:
		log.Error("查询订单失败", err)
		return respApology, false
	}

	sess.Context[model.CtxLastOrderID] = order.ID

	var b strings.Builder
	b.WriteString("Your order " + order.ID + " is " + order.Status.Display() + ".")
	if order.DeliveryDate != "" && order.Status != model.OrderStatusCancelled {
		b.WriteString(" Expected delivery: " + order.DeliveryDate + ".")
	}
	// 仅对仍可取消的订单提示取消入口
	if allowed, _, err := s.orderService.CanCancel(ctx, order.ID); err == nil && allowed {
		b.WriteString(" You can still cancel this order if you need to.")
	}
	return b.String(), true
}

func (s *dialogueService) handleCancelOrder(ctx context.Context, sess *model.Session, result *model.ClassifyResult) (string, bool) {
	orderID := resolveOrderID(sess, result)
	if orderID == "" {
		sess.Context[model.CtxPendingIntent] = model.IntentCancelItem
		return respAskOrderID, true
	}
	delete(sess.Context, model.CtxPendingIntent)

	err := s.orderService.CancelOrder(ctx, orderID)
	switch {
	case err == nil:
		id := strings.ToUpper(strings.TrimSpace(orderID))
		sess.Context[model.CtxLastOrderID] = id
		return "Order " + id + " has been cancelled successfully.", true
	case errors.Is(err, model.ErrInvalidOrderID):
		return respInvalidOrderID, true
	case errors.Is(err, model.ErrOrderNotFound):
		return respOrderNotFound, true
	}
	if denied, ok := model.AsCancelDenied(err); ok {
		// 拒绝原因原样透出给用户
		sess.Context[model.CtxLastOrderID] = denied.OrderID
		return "Unable to cancel order " + denied.OrderID + ": " + denied.Reason + ".", true
	}
	log.Error("取消订单失败", err)
	return respApology, false
}

func (s *dialogueService) handleFAQ(ctx context.Context, utterance string) (string, bool) {
	matches, err := s.faqService.Retrieve(ctx, utterance, 1)
	if err != nil {
		log.Error("FAQ 检索失败", err)
		return respApology, false
	}
	if len(matches) == 0 {
		// 检索未命中是一种正常结果，走统一的兜底文案
		return respFallback, true
	}
	return matches[0].Answer, true
}

// publishEvent 上报交互事件；失败只记日志，不影响响应。
func (s *dialogueService) publishEvent(sessionID string, result model.ClassifyResult, elapsed time.Duration, success bool) {
	if s.publisher == nil {
		return
	}
	ev := analytics.InteractionEvent{
		SessionID:  sessionID,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		ResponseMs: float64(elapsed.Microseconds()) / 1000,
		Success:    success,
		Timestamp:  time.Now(),
	}
	// 事件发布不应挂在请求的生命周期上
	if err := s.publisher.PublishInteraction(context.Background(), ev); err != nil {
		log.Warnf("上报交互事件失败: %v", err)
	}
}

// GetHistory 返回会话当前保留的历史消息；会话不存在时返回空历史。
func (s *dialogueService) GetHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if errors.Is(err, model.ErrSessionNotFound) {
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

// ResetSession 清除会话的历史与上下文。
func (s *dialogueService) ResetSession(ctx context.Context, sessionID string) error {
	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()
	return s.sessionRepo.Delete(ctx, sessionID)
}
