package metric

import "strings"

const (
	TagEnv            = "env"
	TagService        = "service"
	TagPath           = "path"
	TagMethod         = "method"
	TagHttpStatusCode = "http_status_code"
	TagEngagementType = "engagement_type"
	TagEntityType     = "entity_type"
	TagStoreType      = "store_type"
	TagSinkType       = "sink_type"
	TagTrigger        = "trigger"
)

// Tag is a DogStatsD name:value pair
type Tag struct {
	Name  string
	Value string
}

func NewTag(name, value string) Tag {
	return Tag{Name: name, Value: value}
}

// BuildTag renders tags in the "name:value" form the statsd client expects
func BuildTag(tags ...Tag) []string {
	rendered := make([]string, len(tags))
	for i, tag := range tags {
		rendered[i] = TagAsString(tag.Name, tag.Value)
	}
	return rendered
}

func TagAsString(name string, value string) string {
	return name + ":" + tagValueReplacer.Replace(value)
}

// characters DogStatsD would misread inside a tag value
var tagValueReplacer = strings.NewReplacer(
	":", "_", " ", "_", "\\", "_", ",", "_", "|", "_", "@", "_", "#", "_",
)
