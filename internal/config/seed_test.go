package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mergington/activities/internal/config"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestLoadActivities(t *testing.T) {
	convey.Convey("Given the activity seed loader", t, func() {
		ctx := context.Background()

		convey.Convey("When no path is configured", func() {
			activities, err := config.LoadActivities(ctx, "")

			convey.Convey("Then the built-in activities should be returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(activities, convey.ShouldResemble, model.DefaultActivities())
			})
		})

		convey.Convey("When a valid YAML seed is given", func() {
			path := createTempFile(t, "activities.yaml", `
activities:
  - name: Robotics Club
    description: Build and program robots
    schedule: Saturdays, 10:00 AM - 12:00 PM
    max_participants: 8
    participants:
      - ada@mergington.edu
      - ada@mergington.edu
      - alan@mergington.edu
  - name: Chess Club
    description: Learn strategies and compete in chess tournaments
    schedule: Fridays, 3:30 PM - 5:00 PM
    max_participants: 12
`)
			activities, err := config.LoadActivities(ctx, path)

			convey.Convey("Then activities should be loaded in file order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(activities), convey.ShouldEqual, 2)
				convey.So(activities[0].Name, convey.ShouldEqual, "Robotics Club")
				convey.So(activities[0].MaxParticipants, convey.ShouldEqual, 8)
				convey.So(activities[0].Participants, convey.ShouldResemble, []string{"ada@mergington.edu", "alan@mergington.edu"})
				convey.So(activities[1].Name, convey.ShouldEqual, "Chess Club")
				convey.So(len(activities[1].Participants), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When an activity has no capacity", func() {
			path := createTempFile(t, "activities.yaml", `
activities:
  - name: Robotics Club
    description: Build robots
    schedule: Saturdays
`)
			_, err := config.LoadActivities(ctx, path)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, model.ErrInvalidCapacity), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When two activities share a name", func() {
			path := createTempFile(t, "activities.yaml", `
activities:
  - {name: Art Club, description: Paint, schedule: Thursdays, max_participants: 5}
  - {name: Art Club, description: Draw, schedule: Fridays, max_participants: 5}
`)
			_, err := config.LoadActivities(ctx, path)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "duplicate activity")
			})
		})

		convey.Convey("When the file defines no activities", func() {
			path := createTempFile(t, "activities.yaml", "activities: []\n")
			_, err := config.LoadActivities(ctx, path)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.LoadActivities(ctx, "/non/existent/activities.yaml")

			convey.Convey("Then a load error should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
