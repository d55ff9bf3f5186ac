package group

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"testing"
	"time"
)

const (
	BaseURL    = "http://localhost:3001"
	WorkerPool = 50 // 降低并发数，避免单机端口耗尽
)

var HttpClient *http.Client

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 200
	t.MaxIdleConnsPerHost = 200
	t.IdleConnTimeout = 90 * time.Second

	HttpClient = &http.Client{
		Transport: t,
		Timeout:   30 * time.Second,
	}
}

// requireServer 服务没起来时跳过，而不是报错
func requireServer(t *testing.T) {
	t.Helper()
	resp, err := HttpClient.Get("http://localhost:3001/health")
	if err != nil {
		t.Skipf("服务未启动，跳过: %v", err)
	}
	resp.Body.Close()
}

type AuthResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

type GroupResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Subject             string    `json:"subject"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	CreatedBy           uint      `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	GroupID   uint      `json:"group_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationResponse struct {
	ID        uint      `json:"id"`
	GroupID   uint      `json:"group_id"`
	GroupName string    `json:"group_name"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser 注册并登录一个随机用户，返回 token
func CreateUser(t *testing.T) string {
	t.Helper()
	// 使用局部随机数生成器，避免全局锁竞争，并确保随机性
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	suffix := rng.Intn(10000000)

	name := fmt.Sprintf("user_%d", suffix)
	email := fmt.Sprintf("user_%d@test.com", suffix)
	password := "password123"

	if err := register(name, email, password); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	token, err := login(email, password)
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	return token
}

// CreateGroup 用给定 token 创建小组
func CreateGroup(t *testing.T, token string, maxParticipants int) GroupResponse {
	t.Helper()
	data := map[string]any{
		"name":             fmt.Sprintf("Go 学习小组 %d", time.Now().UnixNano()%100000),
		"subject":          "golang",
		"description":      "并发与接口",
		"max_participants": maxParticipants,
	}
	body, _ := json.Marshal(data)
	resp, err := sendRequest("POST", BaseURL+"/groups", token, body)
	if err != nil {
		t.Fatalf("创建小组失败: %v", err)
	}
	var res GroupResponse
	if err := json.Unmarshal(resp, &res); err != nil {
		t.Fatalf("解析创建小组响应失败: %v", err)
	}
	return res
}

func register(name, email, password string) error {
	data := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(data)
	_, err := sendRequest("POST", BaseURL+"/auth/register", "", body)
	return err
}

func login(email, password string) (string, error) {
	data := map[string]string{
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(data)
	resp, err := sendRequest("POST", BaseURL+"/auth/login", "", body)
	if err != nil {
		return "", err
	}
	var res AuthResponse
	if err := json.Unmarshal(resp, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("token is empty")
	}
	return res.Token, nil
}

func joinGroup(token string, groupID uint) error {
	_, err := sendRequest("POST", fmt.Sprintf("%s/groups/%d/join", BaseURL, groupID), token, nil)
	return err
}

func sendRequest(method, url string, token string, body []byte) ([]byte, error) {
	status, respBody, err := sendRequestStatus(method, url, token, body)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("status %d: %s", status, string(respBody))
	}
	return respBody, nil
}

// sendRequestStatus 和 sendRequest 类似，但把状态码交给调用方判断
func sendRequestStatus(method, url string, token string, body []byte) (int, []byte, error) {
	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := HttpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, nil
}

func sendGroupMessage(t *testing.T, token string, groupID uint, text string) MessageResponse {
	t.Helper()
	data := map[string]string{"message": text}
	body, _ := json.Marshal(data)
	resp, err := sendRequest("POST", fmt.Sprintf("%s/groups/%d/messages", BaseURL, groupID), token, body)
	if err != nil {
		t.Fatalf("发送消息失败: %v", err)
	}
	var msg MessageResponse
	if err := json.Unmarshal(resp, &msg); err != nil {
		t.Fatalf("解析消息响应失败: %v", err)
	}
	return msg
}

func getGroupMessages(t *testing.T, token string, groupID uint) []MessageResponse {
	t.Helper()
	resp, err := sendRequest("GET", fmt.Sprintf("%s/groups/%d/messages", BaseURL, groupID), token, nil)
	if err != nil {
		t.Fatalf("获取消息失败: %v", err)
	}
	var msgs []MessageResponse
	if err := json.Unmarshal(resp, &msgs); err != nil {
		t.Fatalf("解析消息列表失败: %v", err)
	}
	return msgs
}

func getNotifications(t *testing.T, token string) []NotificationResponse {
	t.Helper()
	resp, err := sendRequest("GET", BaseURL+"/notifications", token, nil)
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	var notifs []NotificationResponse
	if err := json.Unmarshal(resp, &notifs); err != nil {
		t.Fatalf("解析通知列表失败: %v", err)
	}
	return notifs
}
