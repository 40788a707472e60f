package parser_test

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/gradeparse/internal/domain/model"
	parser "github.com/okian/gradeparse/internal/domain/parser"
	. "github.com/smartystreets/goconvey/convey"
)

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return "c-" + strconv.FormatInt(n.Add(1), 10)
	}
}

func TestParser_Parse(t *testing.T) {
	Convey("Given a parser", t, func() {
		p := parser.New(parser.WithIDGenerator(sequentialIDs()))

		Convey("When a line lists credit before score", func() {
			courses := p.Parse("英语 3.0 85")

			Convey("Then the magnitude rule should assign both values", func() {
				So(len(courses), ShouldEqual, 1)
				So(courses[0].Name, ShouldEqual, "英语")
				So(courses[0].Credit, ShouldEqual, 3.0)
				So(courses[0].Score, ShouldEqual, 85.0)
				So(courses[0].ID, ShouldEqual, "c-1")
				So(courses[0].Planned, ShouldBeFalse)
			})
		})

		Convey("When a line lists score before credit", func() {
			courses := p.Parse("英语 85 3.0")

			Convey("Then the score-first rule should swap them", func() {
				So(len(courses), ShouldEqual, 1)
				So(courses[0].Credit, ShouldEqual, 3.0)
				So(courses[0].Score, ShouldEqual, 85.0)
			})
		})

		Convey("When both numbers exceed the credit ceiling", func() {
			a := p.Parse("英语 85 30")
			b := p.Parse("英语 30 85")

			Convey("Then positional order should decide", func() {
				So(len(a), ShouldEqual, 1)
				So(a[0].Credit, ShouldEqual, 85.0)
				So(a[0].Score, ShouldEqual, 30.0)
				So(len(b), ShouldEqual, 1)
				So(b[0].Credit, ShouldEqual, 30.0)
				So(b[0].Score, ShouldEqual, 85.0)
			})
		})

		Convey("When lines carry grade tokens", func() {
			courses := p.Parse("数据结构 4.0 优秀\n英语 3.0 Pass\n体育 2.0 F")

			Convey("Then the tokens should become scores", func() {
				So(len(courses), ShouldEqual, 3)
				So(courses[0].Name, ShouldEqual, "数据结构")
				So(courses[0].Score, ShouldEqual, 95.0)
				So(courses[0].Credit, ShouldEqual, 4.0)
				So(courses[1].Name, ShouldEqual, "英语")
				So(courses[1].Score, ShouldEqual, 80.0)
				So(courses[2].Name, ShouldEqual, "体育")
				So(courses[2].Credit, ShouldEqual, 2.0)
				So(courses[2].Score, ShouldEqual, 0.0)
			})
		})

		Convey("When a Markdown table is pasted", func() {
			text := "| 课程 | 学分 | 成绩 |\n|---|---|---|\n| 高等数学 | 5.0 | 92 |\n| 大学英语 | 3 | A |\n"
			rep := p.ParseWithReport(text)

			Convey("Then the header and divider should yield nothing", func() {
				So(rep.Lines, ShouldEqual, 3)
				So(len(rep.Courses), ShouldEqual, 2)
				So(len(rep.Rejected), ShouldEqual, 1)
				So(rep.Rejected[0].Reason, ShouldEqual, parser.RejectTooFewNumbers)
			})

			Convey("And the rows should be parsed in order", func() {
				So(rep.Courses[0].Name, ShouldEqual, "高等数学")
				So(rep.Courses[0].Credit, ShouldEqual, 5.0)
				So(rep.Courses[0].Score, ShouldEqual, 92.0)
				So(rep.Courses[1].Name, ShouldEqual, "大学英语")
				So(rep.Courses[1].Credit, ShouldEqual, 3.0)
				So(rep.Courses[1].Score, ShouldEqual, 95.0)
			})
		})

		Convey("When only a divider row is given", func() {
			courses := p.Parse("|---|---|---|")

			Convey("Then no course should be produced", func() {
				So(courses, ShouldNotBeNil)
				So(len(courses), ShouldEqual, 0)
			})
		})

		Convey("When a row starts with an index number", func() {
			courses := p.Parse("1 高等数学 5 92")

			Convey("Then only the last two numbers should be used", func() {
				So(len(courses), ShouldEqual, 1)
				So(courses[0].Name, ShouldEqual, "1 高等数学")
				So(courses[0].Credit, ShouldEqual, 5.0)
				So(courses[0].Score, ShouldEqual, 92.0)
			})
		})

		Convey("When the chosen number text also appears inside the name", func() {
			courses := p.Parse("3D建模 3 90")

			Convey("Then the last occurrences should be removed", func() {
				So(len(courses), ShouldEqual, 1)
				So(courses[0].Name, ShouldEqual, "3D建模")
				So(courses[0].Credit, ShouldEqual, 3.0)
			})
		})

		Convey("When separators vary", func() {
			courses := p.Parse("概率论,3,86\n概率论\t3\t86\n概率论，3，86\n高等数学\u30005.0\u300092")

			Convey("Then every variant should parse", func() {
				So(len(courses), ShouldEqual, 4)
				for _, c := range courses[:3] {
					So(c.Name, ShouldEqual, "概率论")
					So(c.Credit, ShouldEqual, 3.0)
					So(c.Score, ShouldEqual, 86.0)
				}
				So(courses[3].Name, ShouldEqual, "高等数学")
			})
		})

		Convey("When the name ends with dashes or colons", func() {
			courses := p.Parse("线性代数 - 4 88\n线性代数： 4 88\n线性代数 — 4 88")

			Convey("Then the trailing junk should be stripped", func() {
				So(len(courses), ShouldEqual, 3)
				for _, c := range courses {
					So(c.Name, ShouldEqual, "线性代数")
				}
			})
		})

		Convey("When a line cannot be resolved", func() {
			rep := p.ParseWithReport(strings.Repeat("课", 50) + " 3 90\n物理 3 150\n5 92\n只有名字")

			Convey("Then each line should be rejected with its reason", func() {
				So(len(rep.Courses), ShouldEqual, 0)
				So(len(rep.Rejected), ShouldEqual, 4)
				So(rep.Rejected[0].Reason, ShouldEqual, parser.RejectInvalidName)
				So(rep.Rejected[1].Reason, ShouldEqual, parser.RejectScoreRange)
				So(rep.Rejected[2].Reason, ShouldEqual, parser.RejectInvalidName)
				So(rep.Rejected[3].Reason, ShouldEqual, parser.RejectTooFewNumbers)
			})
		})

		Convey("When a number overflows float64", func() {
			rep := p.ParseWithReport("课程 " + strings.Repeat("9", 400) + " 85")

			Convey("Then the line should be rejected instead of stored", func() {
				So(len(rep.Courses), ShouldEqual, 0)
				So(rep.Rejected[0].Reason, ShouldEqual, parser.RejectCreditRange)
			})
		})
	})
}

func TestParser_NeverFails(t *testing.T) {
	Convey("Given hostile inputs", t, func() {
		inputs := []string{
			"",
			"   \n\t\n  ",
			"\x00\xff\xfe\xfd 1 2",
			"||||\n:--:|:--:",
			strings.Repeat("9.9.9.9 ", 1000),
			"A A A A",
		}

		Convey("When each is parsed", func() {
			Convey("Then parsing should not panic and records should respect invariants", func() {
				for _, in := range inputs {
					So(func() { parser.Parse(in) }, ShouldNotPanic)
					for _, c := range parser.Parse(in) {
						So(c.Score, ShouldBeBetweenOrEqual, model.MinScore, model.MaxScore)
						So(c.Credit, ShouldBeGreaterThanOrEqualTo, 0)
						So(len([]rune(c.Name)), ShouldBeBetween, 0, model.MaxNameLength)
					}
				}
			})
		})
	})
}

func TestParser_Concurrent(t *testing.T) {
	Convey("Given a shared parser", t, func() {
		p := parser.New()
		text := "| 高等数学 | 5.0 | 92 |\n英语 3.0 B+\n体育 2 及格"

		Convey("When many goroutines parse the same text", func() {
			var wg sync.WaitGroup
			results := make([][]model.Course, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = p.Parse(text)
				}(i)
			}
			wg.Wait()

			Convey("Then every result should be identical apart from IDs", func() {
				for _, r := range results {
					So(len(r), ShouldEqual, 3)
					So(r[1].Score, ShouldEqual, 88.0)
					So(r[2].Score, ShouldEqual, 65.0)
				}
				So(results[0][0].ID, ShouldNotEqual, results[1][0].ID)
			})
		})
	})
}
