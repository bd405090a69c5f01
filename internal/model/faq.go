package model

// FAQEntry 代表语料中的一条问答对。
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQFile 是 faq.json 文件的顶层结构，条目顺序即语料插入顺序。
type FAQFile struct {
	FAQs []FAQEntry `json:"faqs"`
}

// FAQMatch 是一次检索命中的问答对及其相似度分值。
type FAQMatch struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}
