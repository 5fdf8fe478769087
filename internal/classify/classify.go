// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns a subject-classification code to a book. The
// decision chain is: authoritative catalog-number parse, optional external
// model, then a deterministic keyword-scoring fallback. The chain always
// terminates in a concrete code; a book is never left unclassified.
package classify

import (
	"context"
	"regexp"
	"strings"

	"github.com/pdiddy/bookdex/pkg/types"
)

// category is one top-level class of the catalog scheme with its curated
// keyword list for the rule fallback.
type category struct {
	Code     string
	Label    string
	Keywords []string
}

// defaultCode is the "comprehensive works" class returned when no signal
// points anywhere else.
const defaultCode = "Z"

// techHeavy marks the science/technology-leaning classes whose keyword hits
// score 1.2 instead of 1.0.
var techHeavy = map[string]bool{
	"T": true, "O": true, "Q": true, "R": true, "P": true, "S": true, "X": true,
}

// categories is the fixed top-level table. Order matters: keyword-score ties
// resolve to the first-defined class.
var categories = []category{
	{"A", "马克思主义、列宁主义、毛泽东思想、邓小平理论", []string{"马克思", "列宁", "毛泽东", "邓小平", "社会主义理论"}},
	{"B", "哲学、宗教", []string{"哲学", "形而上学", "伦理学", "宗教", "佛教", "基督教", "道教", "心灵"}},
	{"C", "社会科学总论", []string{"社会科学", "社会学", "调查研究方法", "统计年鉴", "社会问题", "公共管理"}},
	{"D", "政治、法律", []string{"政治", "国际关系", "外交", "法学", "刑法", "民法", "行政法", "宪法"}},
	{"E", "军事", []string{"军事", "战争", "战略", "战术", "国防"}},
	{"F", "经济", []string{"经济", "金融", "管理学", "会计", "市场营销", "企业战略", "贸易", "宏观经济"}},
	{"G", "文化、科学、教育、体育", []string{"教育学", "科普读物", "图书馆学", "文化研究", "体育", "博物馆"}},
	{"H", "语言、文字", []string{"语言学", "语法", "汉语", "英语", "翻译", "词典", "语料库"}},
	{"I", "文学", []string{"文学", "小说", "诗歌", "散文", "戏剧", "文学史", "文论", "名著"}},
	{"J", "艺术", []string{"艺术", "绘画", "雕塑", "摄影", "音乐", "电影", "戏曲", "设计"}},
	{"K", "历史、地理", []string{"历史", "通史", "中国史", "世界史", "地理", "考古", "文明史"}},
	{"N", "自然科学总论", []string{"自然科学", "科研方法", "科学思想史"}},
	{"O", "数理科学和化学", []string{"数学", "物理", "化学", "拓扑", "量子", "代数", "微积分"}},
	{"P", "天文学、地球科学", []string{"天文学", "地质", "地理信息", "气象", "地震", "地图学"}},
	{"Q", "生物科学", []string{"生物", "遗传", "细胞", "生态", "神经科学", "生物化学"}},
	{"R", "医药、卫生", []string{"医学", "临床", "解剖", "药学", "护理", "公共卫生", "疾病"}},
	{"S", "农业科学", []string{"农业", "作物", "畜牧", "林业", "渔业", "土壤"}},
	{"T", "工业技术", []string{"计算机", "算法", "软件工程", "人工智能", "深度学习", "网络", "电子", "机械", "材料", "工业", "自动化"}},
	{"U", "交通运输", []string{"交通", "铁路", "公路", "航运", "港口", "车辆工程"}},
	{"V", "航空、航天", []string{"航空", "航天", "航天器", "火箭", "卫星"}},
	{"X", "环境科学、安全科学", []string{"环境", "生态保护", "污染", "安全工程", "职业安全", "应急"}},
	{"Z", "综合性图书", []string{"百科全书", "年鉴", "论文集", "综合", "工具书"}},
}

// catalogNumberPattern matches a classification number: leading class
// letters, a numeric body, and an optional decimal suffix (e.g. "TP391.1").
var catalogNumberPattern = regexp.MustCompile(`([A-Z]{1,3})([0-9]*)(\.[0-9]+)?`)

// labels indexes categories by code for label lookup.
var labels = func() map[string]string {
	m := make(map[string]string, len(categories))
	for _, c := range categories {
		m[c.Code] = c.Label
	}
	return m
}()

// Label returns the human name for a code's top-level class, or "未知" for a
// letter outside the table.
func Label(code string) string {
	if code == "" {
		return "未知"
	}
	if l, ok := labels[strings.ToUpper(code[:1])]; ok {
		return l
	}
	return "未知"
}

// Classifier runs the decision chain. The zero value classifies with the
// catalog-number parse and keyword fallback only; set Model to enable the
// external-model stage.
type Classifier struct {
	// Model is the optional external-model stage. Nil means disabled, which
	// is the default and a fully supported state.
	Model *ModelClient
}

// Classify returns a ranked classification for the given book fields. It is
// total: with all-empty inputs it returns the default class at confidence 0.5.
func (c *Classifier) Classify(ctx context.Context, title string, authors []string, summary, catalogNumber string) types.Classification {
	// 1) An authoritative catalog number bypasses scoring entirely.
	if code := ParseCatalogNumber(catalogNumber); code != "" {
		return types.Classification{
			Code:       code,
			Label:      Label(code),
			Confidence: 0.95,
			Source:     types.ClassifiedByCatalog,
		}
	}

	// 2) External model, when configured. Any failure falls through.
	if c.Model != nil {
		if code, ok := c.Model.Classify(ctx, title, authors, summary); ok {
			return types.Classification{
				Code:       code,
				Label:      Label(code),
				Confidence: 0.85,
				Source:     types.ClassifiedByModel,
			}
		}
	}

	// 3) Deterministic keyword scoring.
	return ruleClassify(title, authors, summary)
}

// ruleClassify concatenates title, authors, and summary into one blob and
// scores every keyword hit against the category table.
func ruleClassify(title string, authors []string, summary string) types.Classification {
	blob := strings.TrimSpace(strings.Join([]string{
		normalizeBlob(title),
		normalizeBlob(strings.Join(authors, ",")),
		normalizeBlob(summary),
	}, " "))

	code, score := scoreBest(blob)
	return types.Classification{
		Code:       code,
		Label:      Label(code),
		Confidence: scoreConfidence(code, score),
		Source:     types.ClassifiedByRule,
	}
}

// scoreBest returns the best-scoring class for blob. Hits score 1.0, or 1.2
// for the tech-heavy classes; ties go to the first-defined class. An empty
// blob or an all-zero scoreboard yields the default class.
func scoreBest(blob string) (string, float64) {
	if blob == "" {
		return defaultCode, 0
	}
	lower := strings.ToLower(blob)

	bestCode, bestScore := "", 0.0
	for _, cat := range categories {
		score := 0.0
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				if techHeavy[cat.Code] {
					score += 1.2
				} else {
					score += 1.0
				}
			}
		}
		if bestCode == "" || score > bestScore {
			bestCode, bestScore = cat.Code, score
		}
	}
	if bestScore <= 0 {
		return defaultCode, 0
	}
	return bestCode, bestScore
}

// scoreConfidence maps a keyword score to a confidence value.
func scoreConfidence(code string, score float64) float64 {
	switch {
	case score <= 0:
		if code != defaultCode {
			return 0.55
		}
		return 0.5
	case score < 2:
		return 0.65
	case score < 4:
		return 0.8
	default:
		return 0.92
	}
}

// ParseCatalogNumber extracts a classification code from a catalog number
// string, or "" when none is recognizable. The matched prefix is kept whole
// (e.g. "TP391.1" stays "TP391.1", not "T").
func ParseCatalogNumber(catalogNumber string) string {
	if catalogNumber == "" {
		return ""
	}
	return catalogNumberPattern.FindString(strings.ToUpper(catalogNumber))
}

// normalizeBlob flattens quoting marks and whitespace so keyword matching is
// not broken by punctuation.
func normalizeBlob(s string) string {
	s = strings.NewReplacer("《", " ", "》", " ", "【", " ", "】", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
