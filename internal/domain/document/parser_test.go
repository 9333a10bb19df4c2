package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bold(text string) Unit            { return Unit{Text: text, Bold: true} }
func plain(text string) Unit           { return Unit{Text: text} }
func indented(text string, n int) Unit { return Unit{Text: text, Indent: n} }

func TestParse_EmptyDocument(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse(nil)
	require.NotNil(t, res)
	assert.Empty(t, res.Articles)
	assert.Empty(t, res.Exhibits)
}

func TestParse_ChaptersNeverSurface(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제1장 총칙"),
		bold("제1조(목적) 이 계약은 데이터 제공에 관한 사항을 정한다."),
		bold("제2장 데이터의 제공"),
		bold("제2조(정의)"),
	})
	require.Len(t, res.Articles, 2)
	assert.Equal(t, 1, res.Articles[0].Number)
	assert.Equal(t, "목적", res.Articles[0].Heading)
	assert.Equal(t, 2, res.Articles[1].Number)
	assert.Equal(t, "정의", res.Articles[1].Heading)
}

func TestParse_ArticleCountMatchesMarkers(t *testing.T) {
	p := NewParser(nil)
	var units []Unit
	for i := 1; i <= 7; i++ {
		units = append(units, bold(fmt.Sprintf("제%d조(제목%d)", i, i)))
		units = append(units, plain("본문 내용"))
	}
	res := p.Parse(units)
	require.Len(t, res.Articles, 7)
	for i, a := range res.Articles {
		assert.Equal(t, i+1, a.Number)
	}
}

func TestParse_ArticleRequiresEmphasis(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제1조(목적)"),
		// Same pattern without boldness is body text, not a new article.
		plain("제2조에 따라 을은 자료를 제공한다."),
	})
	require.Len(t, res.Articles, 1)
	require.Len(t, res.Articles[0].Content, 1)
	assert.Equal(t, NodeTypePlainText, res.Articles[0].Content[0].Type())
}

func TestParse_InlineArticleBody(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제3조(제공 목적) 을은 다음 각 호의 목적으로만 데이터를 이용한다."),
	})
	require.Len(t, res.Articles, 1)
	require.Len(t, res.Articles[0].Content, 1)
	pt := res.Articles[0].Content[0].(*PlainText)
	assert.Equal(t, "을은 다음 각 호의 목적으로만 데이터를 이용한다.", pt.Text)
}

func TestParse_ClauseNesting(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제5조(데이터의 제공)"),
		plain("① 갑은 을에게 데이터를 제공한다."),
		plain("② 제공 방법은 다음 각 호와 같다."),
		indented("1. 전용 회선을 통한 전송", 1),
		indented("2. 물리적 매체의 인도", 1),
	})
	require.Len(t, res.Articles, 1)
	art := res.Articles[0]
	require.Len(t, art.Content, 2)

	cl1 := art.Content[0].(*Clause)
	assert.Equal(t, 1, cl1.Number)
	assert.Equal(t, "갑은 을에게 데이터를 제공한다.", cl1.Text)
	assert.Empty(t, cl1.Content)

	cl2 := art.Content[1].(*Clause)
	assert.Equal(t, 2, cl2.Number)
	require.Len(t, cl2.Content, 2)
	assert.Equal(t, 1, cl2.Content[0].(*SubClause).Number)
	assert.Equal(t, 2, cl2.Content[1].(*SubClause).Number)
}

func TestParse_ClauselessSubClauseAttachesToArticle(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제4조(이용 범위)"),
		indented("1. 연구 목적의 분석", 1),
		indented("2. 통계 작성", 1),
	})
	require.Len(t, res.Articles, 1)
	require.Len(t, res.Articles[0].Content, 2)
	assert.Equal(t, NodeTypeSubClause, res.Articles[0].Content[0].Type())
}

func TestParse_FourLevelHierarchy(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제6조(보안 조치)"),
		plain("① 을은 다음의 보안 조치를 이행한다."),
		indented("1. 기술적 조치", 1),
		indented("가. 접근 통제 시스템의 운영", 2),
		indented("나. 암호화 저장", 2),
	})
	require.Len(t, res.Articles, 1)
	cl := res.Articles[0].Content[0].(*Clause)
	require.Len(t, cl.Content, 1)
	sc := cl.Content[0].(*SubClause)
	require.Len(t, sc.Content, 2)
	assert.Equal(t, 1, sc.Content[0].(*SubSubClause).Number)
	assert.Equal(t, "접근 통제 시스템의 운영", sc.Content[0].(*SubSubClause).Text)
	assert.Equal(t, 2, sc.Content[1].(*SubSubClause).Number)
}

func TestParse_SubSubClauseWithoutParentIsDropped(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제1조(목적)"),
		indented("가. 부모 없는 세부 항목", 2),
	})
	require.Len(t, res.Articles, 1)
	assert.Empty(t, res.Articles[0].Content)
}

func TestParse_UnsupportedMarkerGlyphFallsToPlainText(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제1조(목적)"),
		plain("㉑ 스물한 번째 항은 지원 범위 밖이다."),
	})
	require.Len(t, res.Articles, 1)
	require.Len(t, res.Articles[0].Content, 1)
	assert.Equal(t, NodeTypePlainText, res.Articles[0].Content[0].Type())
}

func TestParse_ExhibitSectionConsumesFollowingUnits(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제1조(목적)"),
		plain("① 본문"),
		bold("[별표 1] 제공 데이터 명세"),
		plain("데이터 항목별 세부 명세는 아래와 같다."),
		plain("① 별표 안의 원문자도 본문으로 취급한다."),
		bold("[별표 2] 보안 서약서"),
		plain("서약 내용"),
	})
	require.Len(t, res.Articles, 1)
	require.Len(t, res.Exhibits, 2)

	ex1 := res.Exhibits[0]
	assert.Equal(t, 1, ex1.Number)
	assert.Equal(t, "제공 데이터 명세", ex1.Heading)
	require.Len(t, ex1.Content, 2)
	assert.Equal(t, NodeTypePlainText, ex1.Content[0].Type())

	ex2 := res.Exhibits[1]
	assert.Equal(t, 2, ex2.Number)
	require.Len(t, ex2.Content, 1)
}

func TestParse_ExhibitMarkerRequiresEmphasis(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제1조(목적)"),
		plain("[별표 1]에 따른 명세를 말한다."), // reference in body text, not a marker
	})
	assert.Empty(t, res.Exhibits)
	require.Len(t, res.Articles, 1)
	assert.Len(t, res.Articles[0].Content, 1)
}

func TestParse_TableAttachesToCurrentClause(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제2조(제공 항목)"),
		plain("① 제공 항목은 아래 표와 같다."),
		{Table: &RawTable{Rows: [][]RawCell{
			{boldCell("항목"), boldCell("형식")},
			{cell("이용 이력"), cell("CSV")},
		}}},
	})
	cl := res.Articles[0].Content[0].(*Clause)
	require.Len(t, cl.Content, 1)
	tbl := cl.Content[0].(*Table)
	assert.Equal(t, []string{"항목", "형식"}, tbl.Headers)
}

func TestParse_MalformedTableDowngradesToPlainText(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		bold("제2조(제공 항목)"),
		{Table: &RawTable{Rows: [][]RawCell{{cell("유일한 셀")}, {}}}},
	})
	require.Len(t, res.Articles[0].Content, 1)
	pt := res.Articles[0].Content[0].(*PlainText)
	assert.Equal(t, "유일한 셀", pt.Text)
}

func TestParse_ContentBeforeFirstArticleIsDropped(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse([]Unit{
		plain("전문: 본 계약의 당사자는 다음과 같이 합의한다."),
		bold("제1조(목적)"),
	})
	require.Len(t, res.Articles, 1)
	assert.Empty(t, res.Articles[0].Content)
}

//Personal.AI order the ending
