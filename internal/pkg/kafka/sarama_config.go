package kafka

import (
	"Crosspost/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

// newSaramaConfig 同步生产者配置，发送成功才返回
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Retry.Max = 3
	c.Producer.Timeout = 10 * time.Second
	c.Net.DialTimeout = 5 * time.Second

	return c
}
