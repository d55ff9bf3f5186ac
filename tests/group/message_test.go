package group

import (
	"fmt"
	"net/http"
	"testing"
)

// TestMessageOrdering 消息按发送顺序返回
func TestMessageOrdering(t *testing.T) {
	requireServer(t)

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, 10)

	const msgCount = 10
	sent := make([]MessageResponse, 0, msgCount)
	for i := range msgCount {
		sent = append(sent, sendGroupMessage(t, ownerToken, group.ID, fmt.Sprintf("消息 %d", i)))
	}

	got := getGroupMessages(t, ownerToken, group.ID)
	if len(got) != msgCount {
		t.Fatalf("消息数量应为 %d, 实际 %d", msgCount, len(got))
	}
	for i := range got {
		if got[i].ID != sent[i].ID {
			t.Errorf("第 %d 条消息乱序: got=%d want=%d", i, got[i].ID, sent[i].ID)
		}
		if got[i].Message != sent[i].Message {
			t.Errorf("第 %d 条消息内容不符: got=%q want=%q", i, got[i].Message, sent[i].Message)
		}
	}
}

// TestMessageMembershipGate 非成员既不能发也不能看
func TestMessageMembershipGate(t *testing.T) {
	requireServer(t)

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, 10)
	sendGroupMessage(t, ownerToken, group.ID, "内部讨论")

	outsiderToken := CreateUser(t)

	status, body, err := sendRequestStatus("GET", fmt.Sprintf("%s/groups/%d/messages", BaseURL, group.ID), outsiderToken, nil)
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if status != http.StatusForbidden {
		t.Errorf("非成员读消息应返回 403, 实际 %d: %s", status, string(body))
	}

	status, body, err = sendRequestStatus("POST", fmt.Sprintf("%s/groups/%d/messages", BaseURL, group.ID), outsiderToken, []byte(`{"message":"蹭一下"}`))
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if status != http.StatusForbidden {
		t.Errorf("非成员发消息应返回 403, 实际 %d: %s", status, string(body))
	}

	// 入组后立刻可见历史消息
	if err := joinGroup(outsiderToken, group.ID); err != nil {
		t.Fatalf("入组失败: %v", err)
	}
	msgs := getGroupMessages(t, outsiderToken, group.ID)
	if len(msgs) == 0 {
		t.Error("新成员应能看到历史消息")
	}
}

// TestMessageEmptyBody 空消息被拒绝
func TestMessageEmptyBody(t *testing.T) {
	requireServer(t)

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, 10)

	for _, payload := range []string{`{"message":""}`, `{"message":"   "}`, `{}`} {
		status, body, err := sendRequestStatus("POST", fmt.Sprintf("%s/groups/%d/messages", BaseURL, group.ID), ownerToken, []byte(payload))
		if err != nil {
			t.Fatalf("请求失败: %v", err)
		}
		if status != http.StatusBadRequest {
			t.Errorf("payload=%s 应返回 400, 实际 %d: %s", payload, status, string(body))
		}
	}
}
