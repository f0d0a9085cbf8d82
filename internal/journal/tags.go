package journal

import (
	"regexp"
	"slices"
	"strings"
)

// TagPolicy suggests category labels for diary text.
type TagPolicy interface {
	SuggestTags(content string) []string
}

// FallbackTag is suggested when the text is non-blank but nothing matched.
const FallbackTag = "diary"

// TagRule maps a keyword pattern to a label.
type TagRule struct {
	Pattern *regexp.Regexp
	Label   string
}

// DefaultTagRules is evaluated in order; earlier rules win when more than
// MaxTags labels would match.
var DefaultTagRules = []TagRule{
	{regexp.MustCompile(`仕事|業務|会社|会議|(?i)\b(work|office|meetings?|job)\b`), "work"},
	{regexp.MustCompile(`運動|筋トレ|ラン|走|(?i)\b(exercise|workout|gym|run|running|jog)\b`), "exercise"},
	{regexp.MustCompile(`勉強|学習|読書|(?i)\b(study|studied|learn|learning|read|reading)\b`), "learning"},
	{regexp.MustCompile(`家族|子ども|妻|夫|(?i)\b(family|kids?|wife|husband|children)\b`), "family"},
	{regexp.MustCompile(`疲れ|眠い|体調|頭痛|(?i)\b(tired|sleepy|sick|headache)\b`), "health"},
	{regexp.MustCompile(`嬉しい|楽しい|最高|(?i)\b(happy|fun|great|glad)\b`), "positive"},
	{regexp.MustCompile(`不安|つらい|落ち込|イライラ|(?i)\b(anxious|worried|sad|depressed|stressed|annoyed)\b`), "mental"},
}

// KeywordTagger is the default TagPolicy: ordered keyword matching.
type KeywordTagger struct {
	rules []TagRule
}

var _ TagPolicy = (*KeywordTagger)(nil)

// NewKeywordTagger returns a tagger over rules, or DefaultTagRules when
// rules is nil.
func NewKeywordTagger(rules []TagRule) *KeywordTagger {
	if rules == nil {
		rules = DefaultTagRules
	}
	return &KeywordTagger{rules: rules}
}

// SuggestTags returns at most MaxTags distinct labels for content. Blank
// content yields no labels.
func (k *KeywordTagger) SuggestTags(content string) []string {
	text := strings.TrimSpace(content)
	if text == "" {
		return []string{}
	}

	tags := make([]string, 0, MaxTags)
	for _, rule := range k.rules {
		if len(tags) >= MaxTags {
			break
		}
		if rule.Pattern.MatchString(text) && !slices.Contains(tags, rule.Label) {
			tags = append(tags, rule.Label)
		}
	}

	if len(tags) == 0 {
		tags = append(tags, FallbackTag)
	}
	return tags
}
