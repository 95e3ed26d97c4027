package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// LabelStatsCache counts submitted labels per questionnaire in a Redis hash
type LabelStatsCache interface {
	Increment(ctx context.Context, questionnaireID, label string) error
	Counts(ctx context.Context, questionnaireID string) (map[string]int, error)
	QuestionnaireIDs(ctx context.Context) ([]string, error)
}

type labelStatsCache struct {
	client *redis.Client
}

func NewLabelStatsCache(client *redis.Client) LabelStatsCache {
	return &labelStatsCache{
		client: client,
	}
}

const (
	labelsKeyPrefix = "questionnaire:"
	labelsKeySuffix = ":labels"
)

func (c *labelStatsCache) key(questionnaireID string) string {
	return fmt.Sprintf("%s%s%s", labelsKeyPrefix, questionnaireID, labelsKeySuffix)
}

func (c *labelStatsCache) Increment(ctx context.Context, questionnaireID, label string) error {
	return c.client.HIncrBy(ctx, c.key(questionnaireID), label, 1).Err()
}

func (c *labelStatsCache) Counts(ctx context.Context, questionnaireID string) (map[string]int, error) {
	raw, err := c.client.HGetAll(ctx, c.key(questionnaireID)).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(raw))
	for label, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		counts[label] = n
	}
	return counts, nil
}

// QuestionnaireIDs lists every questionnaire that has label counts
func (c *labelStatsCache) QuestionnaireIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := c.client.Scan(ctx, 0, c.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimSuffix(strings.TrimPrefix(iter.Val(), labelsKeyPrefix), labelsKeySuffix)
		ids = append(ids, id)
	}
	return ids, iter.Err()
}
