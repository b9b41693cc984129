package model_test

import (
	"errors"
	"testing"

	model "github.com/mergington/activities/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestActivityValidate(t *testing.T) {
	convey.Convey("Given seed activities", t, func() {
		valid := model.Activity{Name: "Chess Club", Description: "Chess", Schedule: "Fridays", MaxParticipants: 12}

		convey.Convey("Then a complete activity should validate", func() {
			convey.So(valid.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then a blank name should be rejected", func() {
			a := valid
			a.Name = "  "
			convey.So(errors.Is(a.Validate(), model.ErrEmptyName), convey.ShouldBeTrue)
		})

		convey.Convey("Then a missing schedule should be rejected", func() {
			a := valid
			a.Schedule = ""
			convey.So(errors.Is(a.Validate(), model.ErrEmptyDetails), convey.ShouldBeTrue)
		})

		convey.Convey("Then a non-positive capacity should be rejected", func() {
			a := valid
			a.MaxParticipants = 0
			err := a.Validate()
			convey.So(errors.Is(err, model.ErrInvalidCapacity), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "Chess Club")
		})
	})
}

func TestActivityParticipants(t *testing.T) {
	convey.Convey("Given an activity with participants", t, func() {
		a := model.Activity{
			Name:            "Math Club",
			MaxParticipants: 2,
			Participants:    []string{"a@m.edu", "b@m.edu", "a@m.edu", "c@m.edu"},
		}

		convey.Convey("When normalizing", func() {
			n := a.Normalized()

			convey.Convey("Then duplicates should collapse keeping first occurrence", func() {
				convey.So(n.Participants, convey.ShouldResemble, []string{"a@m.edu", "b@m.edu", "c@m.edu"})
				convey.So(len(a.Participants), convey.ShouldEqual, 4)
			})

			convey.Convey("And spots left should floor at zero", func() {
				convey.So(n.SpotsLeft(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When cloning", func() {
			c := a.Clone()
			c.Participants[0] = "z@m.edu"

			convey.Convey("Then the original should be untouched", func() {
				convey.So(a.Participants[0], convey.ShouldEqual, "a@m.edu")
				convey.So(c.HasParticipant("z@m.edu"), convey.ShouldBeTrue)
				convey.So(a.HasParticipant("z@m.edu"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When cloning an activity without participants", func() {
			c := model.Activity{Name: "Empty"}.Clone()

			convey.Convey("Then the slice should be empty but not nil", func() {
				convey.So(c.Participants, convey.ShouldNotBeNil)
				convey.So(len(c.Participants), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestDefaultActivities(t *testing.T) {
	convey.Convey("Given the default seed", t, func() {
		seed := model.DefaultActivities()

		convey.Convey("Then every activity should be valid with unique names", func() {
			names := map[string]bool{}
			for _, a := range seed {
				convey.So(a.Validate(), convey.ShouldBeNil)
				convey.So(names[a.Name], convey.ShouldBeFalse)
				names[a.Name] = true
				convey.So(a.Normalized().Participants, convey.ShouldResemble, a.Participants)
			}
			convey.So(seed[0].Name, convey.ShouldEqual, "Chess Club")
		})

		convey.Convey("Then each call should return an independent slice", func() {
			seed[0].Participants[0] = "mutated"
			convey.So(model.DefaultActivities()[0].Participants[0], convey.ShouldEqual, "michael@mergington.edu")
		})
	})
}
