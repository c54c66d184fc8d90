package analyzer

import "regexp"

// defaultTag is attached to every article; the feed is a technology feed.
const defaultTag = "科技"

// maxTags caps the number of tags per article, default included.
const maxTags = 5

type tagRule struct {
	pattern *regexp.Regexp
	tag     string
}

// tagRules map content keywords to topic tags. Order matters: earlier
// rules win when the tag cap is reached.
var tagRules = []tagRule{
	{regexp.MustCompile(`人工智能|AI|机器学习|深度学习`), "人工智能"},
	{regexp.MustCompile(`苹果|iPhone|iOS|Mac|iPad`), "苹果"},
	{regexp.MustCompile(`微软|Windows|Azure|Office`), "微软"},
	{regexp.MustCompile(`特斯拉|电动车|自动驾驶`), "特斯拉"},
	{regexp.MustCompile(`字节跳动|抖音|TikTok`), "字节跳动"},
	{regexp.MustCompile(`腾讯|微信|QQ`), "腾讯"},
	{regexp.MustCompile(`阿里巴巴|淘宝|支付宝`), "阿里巴巴"},
	{regexp.MustCompile(`百度|搜索|地图`), "百度"},
	{regexp.MustCompile(`华为|鸿蒙|手机`), "华为"},
	{regexp.MustCompile(`小米|雷军|MIUI`), "小米"},
	{regexp.MustCompile(`芯片|半导体|处理器`), "硬件"},
	{regexp.MustCompile(`云计算|云服务|服务器`), "云计算"},
	{regexp.MustCompile(`区块链|比特币|加密货币`), "区块链"},
	{regexp.MustCompile(`元宇宙|VR|AR|虚拟现实`), "元宇宙"},
	{regexp.MustCompile(`5G|6G|通信|网络`), "通信"},
	{regexp.MustCompile(`新能源|电池|充电`), "新能源"},
	{regexp.MustCompile(`机器人|自动化|智能制造`), "机器人"},
	{regexp.MustCompile(`生物技术|基因|医疗`), "生物技术"},
	{regexp.MustCompile(`量子|量子计算|量子通信`), "量子科技"},
	{regexp.MustCompile(`游戏|电竞|娱乐`), "游戏"},
}

// ExtractTags derives topic tags for content. The default tag comes
// first, followed by matched rules in table order, capped at maxTags.
func ExtractTags(content string) []string {
	tags := []string{defaultTag}
	for _, rule := range tagRules {
		if len(tags) >= maxTags {
			break
		}
		if rule.pattern.MatchString(content) {
			tags = append(tags, rule.tag)
		}
	}
	return tags
}
