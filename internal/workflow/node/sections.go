package node

import (
	"regexp"
	"sort"
	"strings"

	"proposal-ai-api/internal/domain/entity"
)

type sectionAnchor struct {
	key        entity.SectionKey
	start, end int
}

var headerPatterns = buildHeaderPatterns()

func buildHeaderPatterns() map[entity.Language]map[entity.SectionKey]*regexp.Regexp {
	out := make(map[entity.Language]map[entity.SectionKey]*regexp.Regexp)
	for _, lang := range []entity.Language{entity.LanguageEnglish, entity.LanguageSpanish} {
		out[lang] = make(map[entity.SectionKey]*regexp.Regexp, len(entity.SectionOrder))
		for _, key := range entity.SectionOrder {
			out[lang][key] = headerPattern(entity.SectionHeader(lang, key))
		}
	}
	return out
}

// headerPattern 匹配位于行首的章节标题，例如 "EXECUTIVE SUMMARY:"、"## Executive Summary"、
// "**SCOPE OF WORK:**"、"1. Terms and Conditions -"。
// 标题后必须是标点（冒号、句点、连字符、破折号）或行尾，避免把以相同词组开头的正文误判为标题。
func headerPattern(header string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t>#*_]*(?:\d+[.)][ \t]*)?[*_]*` + regexp.QuoteMeta(header) +
		`[ \t*_]*(?:[:.\-–—]+|\r?$)[ \t*_]*`)
}

// ExtractSections 按章节标题从模型输出中切分三个章节。
// 正文截止到下一个已识别标题或文本末尾；未找到的章节为空字符串，从不失败。
func ExtractSections(text string, lang entity.Language) entity.GeneratedSections {
	var out entity.GeneratedSections
	if strings.TrimSpace(text) == "" {
		return out
	}

	patterns, ok := headerPatterns[lang]
	if !ok {
		patterns = headerPatterns[entity.LanguageEnglish]
	}

	anchors := make([]sectionAnchor, 0, len(entity.SectionOrder))
	for _, key := range entity.SectionOrder {
		loc := patterns[key].FindStringIndex(text)
		if loc == nil {
			continue
		}
		anchors = append(anchors, sectionAnchor{key: key, start: loc[0], end: loc[1]})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].start < anchors[j].start })

	for i, a := range anchors {
		stop := len(text)
		if i+1 < len(anchors) {
			stop = anchors[i+1].start
		}
		out.Set(a.key, strings.TrimSpace(text[a.end:stop]))
	}
	return out
}
