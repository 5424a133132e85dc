package api

import (
	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/params"
	"github.com/nexstar-alpaca/bridge/internal/result"
	"github.com/nexstar-alpaca/bridge/internal/telescope"
)

// Getter reads a device property or computed value, given its request
// arguments (query string on GET).
type Getter func(args *params.Map) result.Result[any]

// Setter performs a device action or property write, given its request
// arguments (form body on PUT). The Ok payload is always result.Unit;
// callers render it as JSON null.
type Setter func(args *params.Map) result.Result[result.Unit]

// OperationTable is the ordered set of named getters and setters for one
// device instance, keyed by lowercase Alpaca operation name.
type OperationTable struct {
	Getters map[string]Getter
	Setters map[string]Setter
}

func lift[T any](r result.Result[T]) result.Result[any] {
	v, ok := r.Value()
	if !ok {
		return result.Err[any](r.Error())
	}
	return result.Ok[any](v)
}

var (
	fRA        = params.FloatField("RightAscension")
	fDec       = params.FloatField("Declination")
	fAz        = params.FloatField("Azimuth")
	fAlt       = params.FloatField("Altitude")
	fAxis      = params.IntField("Axis")
	fRate      = params.FloatField("Rate")
	fDirection = params.IntField("Direction")
	fDuration  = params.IntField("Duration")
	fTracking  = params.BoolField("Tracking")
	fConnected = params.BoolField("Connected")
	fAction    = params.StringField("Action")
	fCommand   = params.StringField("Command")
	fRaw       = params.BoolField("Raw")
)

// TelescopeOperations builds the operation table for a single telescope
// facade instance, covering the Alpaca ITelescopeV3 members except
// DoesRefraction and SideOfPier, which are not registered.
func TelescopeOperations(t *telescope.Telescope) *OperationTable {
	getters := map[string]Getter{
		"connected":        func(_ *params.Map) result.Result[any] { return result.Ok[any](t.IsConnected()) },
		"description":      staticGetter(t.Meta.Description),
		"driverinfo":       staticGetter(t.Meta.DriverInfo),
		"driverversion":    staticGetter(t.Meta.DriverVersion),
		"interfaceversion": staticGetter(t.Meta.InterfaceVersion),
		"name":             staticGetter(t.Meta.Name),
		"supportedactions": staticGetter(SupportedActions),

		"alignmentmode":    staticGetter(t.Meta.AlignmentMode),
		"aperturearea":     staticGetter(t.Meta.ApertureArea),
		"aperturediameter": staticGetter(t.Meta.ApertureDiameter),
		"focallength":      staticGetter(t.Meta.FocalLength),
		"equatorialsystem": staticGetter(t.Meta.EquatorialSystem),
		"trackingrates":    staticGetter(t.Meta.TrackingRates),

		"canfindhome":              capGetter(t, telescope.CanFindHome),
		"canpark":                  capGetter(t, telescope.CanPark),
		"canpulseguide":            capGetter(t, telescope.CanPulseGuide),
		"cansetdeclinationrate":    capGetter(t, telescope.CanSetDeclinationRate),
		"cansetguiderates":         capGetter(t, telescope.CanSetGuideRates),
		"cansetpark":               capGetter(t, telescope.CanSetPark),
		"cansetpierside":           capGetter(t, telescope.CanSetPierSide),
		"cansetrightascensionrate": capGetter(t, telescope.CanSetRightAscensionRate),
		"cansettracking":           capGetter(t, telescope.CanSetTracking),
		"canslew":                  capGetter(t, telescope.CanSlew),
		"canslewaltaz":             capGetter(t, telescope.CanSlewAltAz),
		"canslewaltazasync":        capGetter(t, telescope.CanSlewAltAzAsync),
		"canslewasync":             capGetter(t, telescope.CanSlewAsync),
		"cansync":                  capGetter(t, telescope.CanSync),
		"cansyncaltaz":             capGetter(t, telescope.CanSyncAltAz),
		"canunpark":                capGetter(t, telescope.CanUnpark),

		"canmoveaxis": func(args *params.Map) result.Result[any] {
			return result.FlatMap(fAxis.Get(args), func(axis int) result.Result[any] {
				cap := telescope.CanMoveAxis0
				switch axis {
				case 1:
					cap = telescope.CanMoveAxis1
				case 2:
					cap = telescope.CanMoveAxis2
				default:
					if axis != 0 {
						return result.Err[any](alpacaerr.InvalidValue())
					}
				}
				return result.Ok[any](cap.Has(t.Meta.Capabilities))
			})
		},

		"axisrates": func(args *params.Map) result.Result[any] {
			return result.FlatMap(fAxis.Get(args), func(axis int) result.Result[any] {
				return lift(t.AxisRates(axis))
			})
		},

		"altitude":       func(_ *params.Map) result.Result[any] { return lift(t.Altitude()) },
		"azimuth":        func(_ *params.Map) result.Result[any] { return lift(t.Azimuth()) },
		"declination":    func(_ *params.Map) result.Result[any] { return lift(t.Declination()) },
		"rightascension": func(_ *params.Map) result.Result[any] { return lift(t.RightAscension()) },
		"siderealtime":   func(_ *params.Map) result.Result[any] { return lift(t.SiderealTime()) },
		"slewing":        func(_ *params.Map) result.Result[any] { return lift(t.Slewing()) },
		"athome":         func(_ *params.Map) result.Result[any] { return lift(t.AtHome()) },
		"atpark":         func(_ *params.Map) result.Result[any] { return lift(t.AtPark()) },
		"ispulseguiding": func(_ *params.Map) result.Result[any] { return lift(t.IsPulseGuiding()) },

		"destinationsideofpier": func(args *params.Map) result.Result[any] {
			return result.FlatMap(fRA.Get(args), func(ra float64) result.Result[any] {
				return result.FlatMap(fDec.Get(args), func(dec float64) result.Result[any] {
					return lift(t.DestinationSideOfPier(ra, dec))
				})
			})
		},

		"declinationrate":        func(_ *params.Map) result.Result[any] { return lift(t.DeclinationRate()) },
		"rightascensionrate":     func(_ *params.Map) result.Result[any] { return lift(t.RightAscensionRate()) },
		"guideratedeclination":   func(_ *params.Map) result.Result[any] { return lift(t.GuideRateDeclination()) },
		"guideraterightascension": func(_ *params.Map) result.Result[any] { return lift(t.GuideRateRightAscension()) },

		"siteelevation":  func(_ *params.Map) result.Result[any] { return lift(t.SiteElevation()) },
		"sitelatitude":   func(_ *params.Map) result.Result[any] { return lift(t.SiteLatitude()) },
		"sitelongitude":  func(_ *params.Map) result.Result[any] { return lift(t.SiteLongitude()) },
		"slewsettletime": func(_ *params.Map) result.Result[any] { return lift(t.SlewSettleTime()) },

		"targetdeclination":    func(_ *params.Map) result.Result[any] { return lift(t.TargetDeclination()) },
		"targetrightascension": func(_ *params.Map) result.Result[any] { return lift(t.TargetRightAscension()) },

		"tracking":     func(_ *params.Map) result.Result[any] { return lift(t.Tracking()) },
		"trackingrate": func(_ *params.Map) result.Result[any] { return lift(t.TrackingRate()) },
		"utcdate":      func(_ *params.Map) result.Result[any] { return lift(t.UTCDate()) },
	}

	setters := map[string]Setter{
		"connected": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fConnected.Get(args), func(v bool) result.Result[result.Unit] {
				return t.SetConnected(v)
			})
		},

		"declinationrate": withFloat(fRate2("DeclinationRate"), t.SetDeclinationRate),
		"rightascensionrate": withFloat(fRate2("RightAscensionRate"), t.SetRightAscensionRate),
		"guideratedeclination": withFloat(fRate2("GuideRateDeclination"), t.SetGuideRateDeclination),
		"guideraterightascension": withFloat(fRate2("GuideRateRightAscension"), t.SetGuideRateRightAscension),
		"siteelevation": withFloat(fRate2("SiteElevation"), t.SetSiteElevation),
		"sitelatitude":  withFloat(fRate2("SiteLatitude"), t.SetSiteLatitude),
		"sitelongitude": withFloat(fRate2("SiteLongitude"), t.SetSiteLongitude),
		"slewsettletime": withFloat(fRate2("SlewSettleTime"), t.SetSlewSettleTime),
		"targetdeclination": withFloat(fDec, t.SetTargetDeclination),
		"targetrightascension": withFloat(fRA, t.SetTargetRightAscension),

		"tracking": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fTracking.Get(args), t.SetTracking)
		},
		"trackingrate": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(params.IntField("TrackingRate").Get(args), t.SetTrackingRate)
		},

		"abortslew": func(_ *params.Map) result.Result[result.Unit] { return t.AbortSlew() },
		"findhome":  func(_ *params.Map) result.Result[result.Unit] { return t.FindHome() },
		"park":      func(_ *params.Map) result.Result[result.Unit] { return t.Park() },
		"setpark":   func(_ *params.Map) result.Result[result.Unit] { return t.SetPark() },
		"unpark":    func(_ *params.Map) result.Result[result.Unit] { return t.Unpark() },

		"moveaxis": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fAxis.Get(args), func(axis int) result.Result[result.Unit] {
				return result.FlatMap(fRate.Get(args), func(rate float64) result.Result[result.Unit] {
					return t.MoveAxis(axis, rate)
				})
			})
		},

		"pulseguide": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fDirection.Get(args), func(dir int) result.Result[result.Unit] {
				return result.FlatMap(fDuration.Get(args), func(dur int) result.Result[result.Unit] {
					return t.PulseGuide(dir, dur)
				})
			})
		},

		"slewtoaltaz":         withAzAlt(t.SlewToAltAz),
		"slewtoaltazasync":    withAzAlt(t.SlewToAltAzAsync),
		"synctoaltaz":         withAzAlt(t.SyncToAltAz),
		"slewtocoordinates":   withRaDec(t.SlewToCoordinates),
		"slewtocoordinatesasync": withRaDec(t.SlewToCoordinatesAsync),
		"synctocoordinates":   withRaDec(t.SyncToCoordinates),

		"slewtotarget":      func(_ *params.Map) result.Result[result.Unit] { return t.SlewToTarget() },
		"slewtotargetasync": func(_ *params.Map) result.Result[result.Unit] { return t.SlewToTargetAsync() },
		"synctotarget":      func(_ *params.Map) result.Result[result.Unit] { return t.SyncToTarget() },

		"action": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fAction.Get(args), func(name string) result.Result[result.Unit] {
				return result.Void(Action(name, nil))
			})
		},
		"commandblind": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fCommand.Get(args), func(cmd string) result.Result[result.Unit] {
				return result.FlatMap(fRaw.Get(args), func(raw bool) result.Result[result.Unit] {
					return CommandBlind(cmd, raw)
				})
			})
		},
		"commandbool": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fCommand.Get(args), func(cmd string) result.Result[result.Unit] {
				return result.FlatMap(fRaw.Get(args), func(raw bool) result.Result[result.Unit] {
					return result.Void(CommandBool(cmd, raw))
				})
			})
		},
		"commandstring": func(args *params.Map) result.Result[result.Unit] {
			return result.FlatMap(fCommand.Get(args), func(cmd string) result.Result[result.Unit] {
				return result.FlatMap(fRaw.Get(args), func(raw bool) result.Result[result.Unit] {
					return result.Void(CommandString(cmd, raw))
				})
			})
		},
	}

	return &OperationTable{Getters: getters, Setters: setters}
}

func staticGetter(v any) Getter {
	return func(_ *params.Map) result.Result[any] { return result.Ok(v) }
}

func capGetter(t *telescope.Telescope, c telescope.Capability) Getter {
	return func(_ *params.Map) result.Result[any] { return result.Ok[any](c.Has(t.Meta.Capabilities)) }
}

// fRate2 declares an ad hoc FloatField for names not already predeclared
// above, keeping every setter's field name identical to its Alpaca form
// key.
func fRate2(name string) params.Field[float64] { return params.FloatField(name) }

func withFloat(field params.Field[float64], set func(float64) result.Result[result.Unit]) Setter {
	return func(args *params.Map) result.Result[result.Unit] {
		return result.FlatMap(field.Get(args), set)
	}
}

func withAzAlt(call func(az, alt float64) result.Result[result.Unit]) Setter {
	return func(args *params.Map) result.Result[result.Unit] {
		return result.FlatMap(fAz.Get(args), func(az float64) result.Result[result.Unit] {
			return result.FlatMap(fAlt.Get(args), func(alt float64) result.Result[result.Unit] {
				return call(az, alt)
			})
		})
	}
}

func withRaDec(call func(ra, dec float64) result.Result[result.Unit]) Setter {
	return func(args *params.Map) result.Result[result.Unit] {
		return result.FlatMap(fRA.Get(args), func(ra float64) result.Result[result.Unit] {
			return result.FlatMap(fDec.Get(args), func(dec float64) result.Result[result.Unit] {
				return call(ra, dec)
			})
		})
	}
}
