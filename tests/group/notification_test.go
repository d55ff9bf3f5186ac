package group

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// waitForNotification Kafka 链路是异步的，轮询等通知落库
func waitForNotification(t *testing.T, token string, groupID uint) *NotificationResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, n := range getNotifications(t, token) {
			if n.GroupID == groupID && n.Type == "new_member" {
				return &n
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil
}

// TestNewMemberNotification 入组后创建者收到 new_member 通知
func TestNewMemberNotification(t *testing.T) {
	requireServer(t)

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, 10)

	memberToken := CreateUser(t)
	if err := joinGroup(memberToken, group.ID); err != nil {
		t.Fatalf("入组失败: %v", err)
	}

	notif := waitForNotification(t, ownerToken, group.ID)
	if notif == nil {
		t.Fatal("创建者未收到 new_member 通知")
	}
	if notif.IsRead {
		t.Error("新通知应为未读")
	}
	if notif.GroupName != group.Name {
		t.Errorf("通知应带小组名: got=%q want=%q", notif.GroupName, group.Name)
	}

	// 入组的人自己不该收到通知
	for _, n := range getNotifications(t, memberToken) {
		if n.GroupID == group.ID {
			t.Errorf("入组者不应收到通知: %+v", n)
		}
	}
}

// TestNotificationMarkReadAndDelete 已读与删除只对本人生效
func TestNotificationMarkReadAndDelete(t *testing.T) {
	requireServer(t)

	ownerToken := CreateUser(t)
	group := CreateGroup(t, ownerToken, 10)
	memberToken := CreateUser(t)
	if err := joinGroup(memberToken, group.ID); err != nil {
		t.Fatalf("入组失败: %v", err)
	}

	notif := waitForNotification(t, ownerToken, group.ID)
	if notif == nil {
		t.Fatal("创建者未收到通知")
	}

	// 别人动不了这条通知
	status, _, err := sendRequestStatus("PUT", fmt.Sprintf("%s/notifications/%d/read", BaseURL, notif.ID), memberToken, nil)
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("他人标记已读应返回 404, 实际 %d", status)
	}

	// 本人标记已读
	if _, err := sendRequest("PUT", fmt.Sprintf("%s/notifications/%d/read", BaseURL, notif.ID), ownerToken, nil); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	found := false
	for _, n := range getNotifications(t, ownerToken) {
		if n.ID == notif.ID {
			found = true
			if !n.IsRead {
				t.Error("标记后应为已读")
			}
		}
	}
	if !found {
		t.Error("标记已读后通知应仍在列表中")
	}

	// 重复标记是幂等的：第二次同样 200，状态保持已读
	if _, err := sendRequest("PUT", fmt.Sprintf("%s/notifications/%d/read", BaseURL, notif.ID), ownerToken, nil); err != nil {
		t.Fatalf("重复标记已读失败: %v", err)
	}
	for _, n := range getNotifications(t, ownerToken) {
		if n.ID == notif.ID && !n.IsRead {
			t.Error("重复标记后仍应为已读")
		}
	}

	// 删除后从列表消失
	if _, err := sendRequest("DELETE", fmt.Sprintf("%s/notifications/%d", BaseURL, notif.ID), ownerToken, nil); err != nil {
		t.Fatalf("删除通知失败: %v", err)
	}
	for _, n := range getNotifications(t, ownerToken) {
		if n.ID == notif.ID {
			t.Error("删除后通知不应出现在列表中")
		}
	}

	// 再删一次返回 404
	status, _, err = sendRequestStatus("DELETE", fmt.Sprintf("%s/notifications/%d", BaseURL, notif.ID), ownerToken, nil)
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("重复删除应返回 404, 实际 %d", status)
	}
}
