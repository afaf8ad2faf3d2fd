package i18n_test

import (
	"testing"

	"github.com/okian/elevatos/internal/i18n"
	"github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	convey.Convey("Given language tags", t, func() {
		cases := map[string]string{
			"pt":    "pt",
			"pt-BR": "pt",
			"en":    "en",
			"en-US": "en",
			"es-MX": "es",
		}
		for in, want := range cases {
			got, ok := i18n.Normalize(in)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(got, convey.ShouldEqual, want)
		}

		convey.Convey("Then unsupported or malformed tags are rejected", func() {
			for _, in := range []string{"", "  ", "fr", "!!"} {
				_, ok := i18n.Normalize(in)
				convey.So(ok, convey.ShouldBeFalse)
			}
		})
	})
}

func TestLookup(t *testing.T) {
	convey.Convey("Given the label catalogue", t, func() {
		convey.So(i18n.Languages(), convey.ShouldResemble, []string{"pt", "en", "es"})
		convey.So(i18n.T("en", "venda"), convey.ShouldEqual, "Sales")
		convey.So(i18n.T("es", "pos-venda"), convey.ShouldEqual, "Posventa")

		convey.Convey("Then unknown languages fall back to Portuguese", func() {
			convey.So(i18n.T("fr", "fabricacao"), convey.ShouldEqual, "Fabricação")
		})

		convey.Convey("Then unknown keys fall back to the key", func() {
			convey.So(i18n.T("en", "noSuchKey"), convey.ShouldEqual, "noSuchKey")
		})

		convey.Convey("Then a bound translator normalizes its language", func() {
			t := i18n.For("en-GB")
			convey.So(t("instalacao"), convey.ShouldEqual, "Installation")
		})
	})
}

func TestFormat(t *testing.T) {
	convey.Convey("Given amounts to display", t, func() {
		convey.So(i18n.FormatNumber("en", 1234567), convey.ShouldEqual, "1,234,567")
		convey.So(i18n.FormatCurrency("en", 13000000), convey.ShouldEqual, "R$ 13,000,000")
		convey.So(i18n.FormatCurrency("pt", 4200000), convey.ShouldStartWith, "R$ 4")
	})
}
