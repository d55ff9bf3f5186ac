package group

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestJoinCapacityRace 并发抢最后几个名额，成功数必须正好等于剩余名额
func TestJoinCapacityRace(t *testing.T) {
	requireServer(t)

	const maxParticipants = 5
	const contenders = 20 // 远多于剩余名额

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, maxParticipants)
	if group.CurrentParticipants != 1 {
		t.Fatalf("创建者应计入容量, current=%d", group.CurrentParticipants)
	}

	// 创建者占 1 个名额，剩 maxParticipants-1 个
	remaining := maxParticipants - 1

	tokens := make([]string, contenders)
	for i := range tokens {
		tokens[i] = CreateUser(t)
	}

	var successCount int32
	var fullCount int32
	var wg sync.WaitGroup
	sem := make(chan struct{}, WorkerPool)

	startTime := time.Now()
	for i := range contenders {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			status, body, err := sendRequestStatus("POST", fmt.Sprintf("%s/groups/%d/join", BaseURL, group.ID), tokens[idx], nil)
			if err != nil {
				t.Errorf("[User %d] 请求失败: %v", idx, err)
				return
			}
			switch status {
			case http.StatusOK:
				atomic.AddInt32(&successCount, 1)
			case http.StatusBadRequest:
				atomic.AddInt32(&fullCount, 1)
			default:
				t.Errorf("[User %d] 意外状态码 %d: %s", idx, status, string(body))
			}
		}(i)
	}
	wg.Wait()

	t.Logf("总耗时: %v, 成功: %d, 满员拒绝: %d", time.Since(startTime), successCount, fullCount)

	if int(successCount) != remaining {
		t.Errorf("成功入组数应为 %d, 实际 %d", remaining, successCount)
	}
	if int(successCount+fullCount) != contenders {
		t.Errorf("成功+拒绝应为 %d, 实际 %d", contenders, successCount+fullCount)
	}
}

// TestJoinDuplicate 重复入组应被拒绝且不占名额
func TestJoinDuplicate(t *testing.T) {
	requireServer(t)

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, 10)

	memberToken := CreateUser(t)
	if err := joinGroup(memberToken, group.ID); err != nil {
		t.Fatalf("首次入组失败: %v", err)
	}

	status, body, err := sendRequestStatus("POST", fmt.Sprintf("%s/groups/%d/join", BaseURL, group.ID), memberToken, nil)
	if err != nil {
		t.Fatalf("重复入组请求失败: %v", err)
	}
	if status != http.StatusBadRequest {
		t.Errorf("重复入组应返回 400, 实际 %d: %s", status, string(body))
	}

	// 创建者重复加自己的组同样拒绝
	status, body, err = sendRequestStatus("POST", fmt.Sprintf("%s/groups/%d/join", BaseURL, group.ID), ownerToken, nil)
	if err != nil {
		t.Fatalf("创建者重复入组请求失败: %v", err)
	}
	if status != http.StatusBadRequest {
		t.Errorf("创建者重复入组应返回 400, 实际 %d: %s", status, string(body))
	}
}

// TestJoinMissingGroup 入不存在的组返回 404
func TestJoinMissingGroup(t *testing.T) {
	requireServer(t)

	token := CreateUser(t)
	status, body, err := sendRequestStatus("POST", BaseURL+"/groups/99999999/join", token, nil)
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("应返回 404, 实际 %d: %s", status, string(body))
	}
}
