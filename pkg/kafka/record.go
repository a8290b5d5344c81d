package kafka

import (
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Record is a consumed message reduced to what batch handlers need
type Record struct {
	Key       string
	Value     []byte
	Partition int32
	Offset    kafka.Offset
}

// Position renders the record's partition and offset, e.g. "p3@1042"
func (r Record) Position() string {
	return fmt.Sprintf("p%d@%d", r.Partition, int64(r.Offset))
}

// ToRecords drops nil messages and normalises nil values to empty slices
func ToRecords(msgs []*kafka.Message) []Record {
	records := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		r := Record{
			Key:       string(m.Key),
			Value:     m.Value,
			Partition: m.TopicPartition.Partition,
			Offset:    m.TopicPartition.Offset,
		}
		if r.Value == nil {
			r.Value = []byte{}
		}
		records = append(records, r)
	}
	return records
}
