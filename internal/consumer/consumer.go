package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/Gopher0727/StudyHub/internal/services"
	"github.com/Gopher0727/StudyHub/pkg/mq"
)

type NotificationConsumer struct {
	groupService *services.GroupService
}

func NewNotificationConsumer(groupService *services.GroupService) *NotificationConsumer {
	return &NotificationConsumer{
		groupService: groupService,
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *NotificationConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *NotificationConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *NotificationConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		log.Printf("消费入组事件: value = %s, timestamp = %v, topic = %s", string(message.Value), message.Timestamp, message.Topic)

		var event mq.NewMemberEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("反序列化入组事件失败: %v", err)
			session.MarkMessage(message, "")
			continue
		}

		// 落库生成通知
		if err := consumer.groupService.CreateNewMemberNotification(&event); err != nil {
			log.Printf("写入通知失败: %v", err)
			// 暂时标记为已消费，避免死循环
			session.MarkMessage(message, "")
			continue
		}

		session.MarkMessage(message, "")
	}
	return nil
}

func StartConsumer(brokers []string, groupID string, topic string, consumer *NotificationConsumer) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		log.Fatalf("创建消费者组客户端失败: %v", err)
	}

	ctx := context.Background()
	go func() {
		for {
			if err := client.Consume(ctx, []string{topic}, consumer); err != nil {
				log.Printf("消费者错误: %v", err)
			}
			// check if context was cancelled, signaling that the consumer should stop
			if ctx.Err() != nil {
				return
			}
		}
	}()
}
