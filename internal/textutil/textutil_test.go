// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trims", "  x  ", "x"},
		{"collapses runs", "a \t\n b   c", "a b c"},
		{"already clean", "深度学习", "深度学习"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"half-width brackets", "算法导论[第3版]", "算法导论"},
		{"full-width brackets", "世界简史（插图本）", "世界简史"},
		{"cn square brackets", "【精装】红楼梦", "红楼梦"},
		{"leading ordinal dot", "1. 文明简史", "文明简史"},
		{"leading ordinal dun", "12、三体", "三体"},
		{"leading ordinal paren", "3) 活着", "活着"},
		{"leading ordinal colon", "4: 呐喊", "呐喊"},
		{"plus and slash fold", "数学之美+浪潮之巅/吴军", "数学之美 浪潮之巅 吴军"},
		{"list separator folds", "鲁迅、茅盾", "鲁迅 茅盾"},
		{"fullwidth space and tab", "史记　司马迁\t著", "史记 司马迁 著"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindISBN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no match", "明朝那些事儿", ""},
		{"bare isbn13", "9787020002207", "9787020002207"},
		{"isbn13 979", "9791234567890", "9791234567890"},
		{"hyphenated", "978-7-02-000220-7", "9787020002207"},
		{"embedded in query", "红楼梦 9787020002207 人民文学", "9787020002207"},
		{"isbn10 with X check", "7-5327-3362-X", "753273362X"},
		{"isbn10 lowercase x", "753273362x", "753273362X"},
		{"spaces inside", "978 7 02 000220 7", "9787020002207"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindISBN(tt.in); got != tt.want {
				t.Errorf("FindISBN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeISBN(t *testing.T) {
	if got := NormalizeISBN("978-7-02-000220-7"); got != "9787020002207" {
		t.Errorf("NormalizeISBN = %q, want 9787020002207", got)
	}
	if got := NormalizeISBN("753273362x"); got != "753273362X" {
		t.Errorf("NormalizeISBN = %q, want 753273362X", got)
	}
}
