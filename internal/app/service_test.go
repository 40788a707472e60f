package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/gradeparse/internal/app"
	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, string) (extract.Result, error) {
	return extract.Result{}, errors.New("extractor down")
}

func startService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(8),
			service.WithDedupeTTL(time.Minute),
		)

		Convey("When it is not started", func() {
			_, err := svc.Parse(context.Background(), "英语 3 85")

			Convey("Then operations should fail with ErrNotStarted", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting and stopping", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			started := svc.GetStats()
			svc.Stop()
			svc.Stop()

			Convey("Then the state should follow", func() {
				So(started["started"], ShouldEqual, true)
				So(started["workerCount"], ShouldEqual, 2)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_ParseAndImport(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(service.WithWorkerCount(1))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When parsing text", func() {
			res, err := svc.Parse(ctx, "英语 3.0 85\n数据结构 4.0 优秀")

			Convey("Then nothing should be stored", func() {
				So(err, ShouldBeNil)
				So(len(res.Courses), ShouldEqual, 2)
				courses, _ := svc.Courses(ctx, nil)
				So(len(courses), ShouldEqual, 0)
			})
		})

		Convey("When importing text twice without a key", func() {
			first, err1 := svc.Import(ctx, "", "英语 3.0 85\n体育 1 F")
			second, err2 := svc.Import(ctx, "", "英语 3.0 85\n体育 1 F")

			Convey("Then the second import should be a duplicate", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.Duplicate, ShouldBeFalse)
				So(first.Imported, ShouldEqual, 2)
				So(second.Duplicate, ShouldBeTrue)
				So(second.Key, ShouldEqual, first.Key)
				courses, _ := svc.Courses(ctx, nil)
				So(len(courses), ShouldEqual, 2)
			})
		})

		Convey("When importing the same text under different keys", func() {
			_, _ = svc.Import(ctx, "k1", "英语 3 85")
			_, _ = svc.Import(ctx, "k2", "英语 3 85")

			Convey("Then both should be stored", func() {
				courses, _ := svc.Courses(ctx, nil)
				So(len(courses), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a service whose extractor fails", t, func() {
		svc := startService(service.WithExtractor(failingExtractor{}), service.WithWorkerCount(1))
		defer svc.Stop()

		Convey("When importing", func() {
			_, err := svc.Import(context.Background(), "k", "英语 3 85")

			Convey("Then the key should be released for a retry", func() {
				So(err, ShouldNotBeNil)
				_, err = svc.Import(context.Background(), "k", "英语 3 85")
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "extractor down")
			})
		})
	})
}

func TestService_CoursesAndStats(t *testing.T) {
	Convey("Given stored courses", t, func() {
		svc := startService(service.WithWorkerCount(1))
		defer svc.Stop()
		ctx := context.Background()
		_, err := svc.Import(ctx, "", "高等数学 5 90\n英语 3 60\n选修 2 100")
		So(err, ShouldBeNil)
		courses, _ := svc.Courses(ctx, nil)
		So(len(courses), ShouldEqual, 3)

		Convey("When computing stats over all courses", func() {
			_, err := svc.SetPlanned(ctx, courses[2].ID, true)
			So(err, ShouldBeNil)
			report, err := svc.Stats(ctx, false)

			Convey("Then planned courses should be excluded", func() {
				So(err, ShouldBeNil)
				So(report.Summary.TotalCredits, ShouldEqual, 8.0)
				So(report.Summary.WeightedAverage, ShouldEqual, 78.75)
				So(report.Summary.GPA, ShouldEqual, 2.875)
			})

			Convey("And included on request", func() {
				all, err := svc.Stats(ctx, true)
				So(err, ShouldBeNil)
				So(all.Summary.Count, ShouldEqual, 3)
				So(all.Summary.TotalCredits, ShouldEqual, 10.0)
			})

			Convey("And the planned filter should list it alone", func() {
				yes := true
				planned, err := svc.Courses(ctx, &yes)
				So(err, ShouldBeNil)
				So(len(planned), ShouldEqual, 1)
				So(planned[0].Name, ShouldEqual, "选修")
			})
		})

		Convey("When deleting and clearing", func() {
			So(svc.Delete(ctx, courses[0].ID), ShouldBeNil)
			rest, _ := svc.Courses(ctx, nil)
			n, err := svc.Clear(ctx)

			Convey("Then the store should shrink", func() {
				So(len(rest), ShouldEqual, 2)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				report, _ := svc.Stats(ctx, true)
				So(report.Summary.Count, ShouldEqual, 0)
				So(len(report.Distribution), ShouldEqual, 0)
			})
		})
	})

	Convey("Given posted courses", t, func() {
		svc := service.New()

		Convey("When they are valid", func() {
			report, err := svc.StatsFor([]model.Course{{Name: "a", Credit: 5, Score: 90}, {Name: "b", Credit: 3, Score: 60}})

			Convey("Then stats should be computed without starting the service", func() {
				So(err, ShouldBeNil)
				So(report.Summary.GPA, ShouldEqual, 2.875)
			})
		})

		Convey("When one is invalid", func() {
			_, err := svc.StatsFor([]model.Course{{Name: "a", Credit: 5, Score: 190}})

			Convey("Then ErrInvalidCourse should be returned", func() {
				So(errors.Is(err, service.ErrInvalidCourse), ShouldBeTrue)
				So(errors.Is(err, model.ErrInvalidScore), ShouldBeTrue)
			})
		})
	})
}
