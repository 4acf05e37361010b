package model

import "strings"

// 1 分あたりの読了語数
const WordsPerMinute = 200

// 見出しと本文の語数 (空白区切り)
func (p *PostDetail) WordCount() int {
	if p == nil {
		return 0
	}

	words := 0
	for _, section := range p.Data.Content {
		words += len(strings.Fields(section.Heading))
		for _, block := range section.Body {
			words += len(strings.Fields(block.PlainText()))
		}
	}
	return words
}

// 読了時間 (分) = ceil(語数 / 200)
func (p *PostDetail) ReadingTime() int {
	return ReadingMinutes(p.WordCount())
}

func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
