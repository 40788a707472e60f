package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/gradeparse/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJobStatus(t *testing.T) {
	Convey("Given job statuses", t, func() {
		Convey("Then only done and failed should be terminal", func() {
			So(types.JobStatus{State: types.JobQueued}.Terminal(), ShouldBeFalse)
			So(types.JobStatus{State: types.JobDone}.Terminal(), ShouldBeTrue)
			So(types.JobStatus{State: types.JobFailed}.Terminal(), ShouldBeTrue)
		})

		Convey("When encoding a queued job", func() {
			s := types.JobStatus{ID: "j1", State: types.JobQueued, SubmittedAt: time.Unix(0, 0).UTC()}
			b, err := json.Marshal(s)

			Convey("Then optional fields should be omitted", func() {
				So(err, ShouldBeNil)
				out := string(b)
				So(out, ShouldContainSubstring, `"state":"queued"`)
				So(out, ShouldNotContainSubstring, "finished_at")
				So(out, ShouldNotContainSubstring, "error")
			})
		})
	})
}
