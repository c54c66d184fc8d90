package analyzer

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// commonWords are high-frequency everyday words. Text dominated by these
// scores low on vocabulary complexity.
var commonWords = []string{
	"的", "是", "在", "有", "和", "了", "与", "也", "这", "个",
	"我", "你", "他", "她", "它", "们", "不", "很", "都", "还",
	"要", "可以", "能够", "应该", "需要", "时候", "地方", "人们", "社会", "国家",
	"发展", "技术", "系统", "服务", "产品", "市场", "用户", "数据", "信息", "内容",
	"方式", "问题", "解决", "提供", "支持", "使用", "工作", "学习", "生活",
}

// complexWords are technical and specialised terms that raise vocabulary
// complexity.
var complexWords = []string{
	"人工智能", "机器学习", "深度学习", "神经网络", "算法", "模型", "架构", "框架", "API", "接口",
	"数据库", "云计算", "区块链", "量子", "生物技术", "基因", "纳米", "芯片", "半导体", "处理器",
	"存储", "网络", "协议", "加密", "安全", "隐私", "认证", "授权", "监管", "合规",
	"策略", "战略", "创新", "颠覆", "转型", "升级", "优化", "整合", "融合", "协同",
	"生态", "平台", "终端", "设备", "硬件", "软件", "应用", "程序", "代码", "开发",
	"测试", "部署", "运维", "监控", "分析", "统计", "可视化", "自动化", "智能化", "数字化",
}

// vocabularyScorer classifies whitespace-delimited tokens as complex or
// common by substring containment, using Aho-Corasick matchers so each
// token is scanned once per table.
type vocabularyScorer struct {
	complex *ahocorasick.Matcher
	common  *ahocorasick.Matcher
}

func newVocabularyScorer() *vocabularyScorer {
	return &vocabularyScorer{
		complex: ahocorasick.NewStringMatcher(complexWords),
		common:  ahocorasick.NewStringMatcher(commonWords),
	}
}

// score returns a vocabulary complexity score in [1, 10]. A token counts
// as complex when it contains any complex word; otherwise as common when
// it contains any common word. Complex tokens push the score up, common
// tokens pull it down.
func (s *vocabularyScorer) score(content string) float64 {
	words := strings.Fields(content)
	if len(words) == 0 {
		return 1
	}

	var complexCount, commonCount int
	for _, word := range words {
		switch {
		case len(s.complex.MatchThreadSafe([]byte(word))) > 0:
			complexCount++
		case len(s.common.MatchThreadSafe([]byte(word))) > 0:
			commonCount++
		}
	}

	total := float64(len(words))
	complexRatio := float64(complexCount) / total
	commonRatio := float64(commonCount) / total

	score := complexRatio*10 + (1-commonRatio)*3
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
