package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CodeCleaner 清除过期确认码
type CodeCleaner interface {
	ClearExpiredCodes(ctx context.Context, before time.Time) (int64, error)
}

// CleanupService 定时清理过期确认码
type CleanupService struct {
	store    CodeCleaner
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewCleanupService 创建清理服务
func NewCleanupService(store CodeCleaner, ttl, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupService{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start 启动定时清理任务，启动时先运行一次
func (s *CleanupService) Start() {
	if s.ttl <= 0 {
		slog.Info("确认码不过期，跳过清理任务")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(context.Background())
		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop 停止清理任务并等待当前一轮结束
func (s *CleanupService) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// RunOnce 清理签发时间超过有效期的确认码
func (s *CleanupService) RunOnce(ctx context.Context) int64 {
	before := s.now().Add(-s.ttl)
	affected, err := s.store.ClearExpiredCodes(ctx, before)
	if err != nil {
		slog.Error("清理过期确认码失败", "error", err)
		return 0
	}
	if affected > 0 {
		slog.Info("已清理过期确认码", "count", affected)
	}
	return affected
}
