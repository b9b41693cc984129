package types_test

import (
	"encoding/json"
	"testing"

	"github.com/mergington/activities/internal/domain/model"
	types "github.com/mergington/activities/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestActivityList(t *testing.T) {
	Convey("Given an activity list built from domain activities", t, func() {
		list := types.NewActivityList([]model.Activity{
			{Name: "Zoology", Description: "Animals", Schedule: "Mon", MaxParticipants: 5, Participants: []string{"a@m.edu"}},
			{Name: "Art Club", Description: "Paint", Schedule: "Tue", MaxParticipants: 3},
		})

		Convey("When marshalled", func() {
			data, err := json.Marshal(list)

			Convey("Then keys should keep slice order and empty participants encode as []", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual,
					`{"Zoology":{"description":"Animals","schedule":"Mon","max_participants":5,"participants":["a@m.edu"]},`+
						`"Art Club":{"description":"Paint","schedule":"Tue","max_participants":3,"participants":[]}}`)
			})

			Convey("And decoding into a plain map should still work", func() {
				var m map[string]types.ActivityView
				So(json.Unmarshal(data, &m), ShouldBeNil)
				So(m, ShouldContainKey, "Art Club")
				So(m["Zoology"].Participants, ShouldResemble, []string{"a@m.edu"})
			})

			Convey("And decoding back into an ActivityList should keep order", func() {
				var back types.ActivityList
				So(json.Unmarshal(data, &back), ShouldBeNil)
				So(back.Names(), ShouldResemble, []string{"Zoology", "Art Club"})
				view, ok := back.Get("Art Club")
				So(ok, ShouldBeTrue)
				So(view.MaxParticipants, ShouldEqual, 3)
			})
		})

		Convey("When looking up an unknown name", func() {
			_, ok := list.Get("Knitting")

			Convey("Then it should report absence", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When decoding a non-object", func() {
			var back types.ActivityList
			err := json.Unmarshal([]byte(`["Chess Club"]`), &back)

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given an empty list", t, func() {
		data, err := json.Marshal(types.ActivityList{})

		Convey("Then it should encode as an empty object", func() {
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{}`)
		})
	})
}

func TestResponses(t *testing.T) {
	Convey("Given the response records", t, func() {
		Convey("Then they should use the documented field names", func() {
			msg, _ := json.Marshal(types.MessageResponse{Message: "Signed up a@m.edu for Chess Club"})
			detail, _ := json.Marshal(types.ErrorDetail{Detail: "Activity not found"})
			So(string(msg), ShouldEqual, `{"message":"Signed up a@m.edu for Chess Club"}`)
			So(string(detail), ShouldEqual, `{"detail":"Activity not found"}`)
		})
	})
}

func TestNewActivityViewCopiesParticipants(t *testing.T) {
	Convey("Given a domain activity", t, func() {
		a := model.Activity{Name: "Chess Club", Participants: []string{"x@m.edu"}}
		view := types.NewActivityView(a)

		Convey("When the view is mutated", func() {
			view.Participants[0] = "changed"

			Convey("Then the source should be untouched", func() {
				So(a.Participants[0], ShouldEqual, "x@m.edu")
			})
		})
	})
}
