package types

// FillMissing copies every field of src into dst where dst has no value.
// Brand and model are left untouched.
func FillMissing(dst *SpecRecord, src SpecRecord) {
	fillFloat(&dst.HeelHeight, src.HeelHeight)
	fillFloat(&dst.ForefootHeight, src.ForefootHeight)
	fillFloat(&dst.Drop, src.Drop)
	fillFloat(&dst.Weight, src.Weight)
	fillFloat(&dst.Price, src.Price)
	fillBool(&dst.CarbonPlate, src.CarbonPlate)
	fillBool(&dst.Waterproof, src.Waterproof)
	FillText(dst, src)
}

// FillText copies categorical text fields of src into dst where dst has none.
func FillText(dst *SpecRecord, src SpecRecord) {
	fillString(&dst.UpperBreathability, src.UpperBreathability)
	fillString(&dst.PrimaryUse, src.PrimaryUse)
	fillString(&dst.CushioningType, src.CushioningType)
	fillString(&dst.SurfaceType, src.SurfaceType)
	fillString(&dst.FootWidth, src.FootWidth)
	fillString(&dst.AdditionalFeatures, src.AdditionalFeatures)
}

// FillBooleans copies boolean fields of src into dst where dst has none.
func FillBooleans(dst *SpecRecord, src SpecRecord) {
	fillBool(&dst.CarbonPlate, src.CarbonPlate)
	fillBool(&dst.Waterproof, src.Waterproof)
}

// Clone returns a deep copy of r; pointer fields do not alias.
func (r SpecRecord) Clone() SpecRecord {
	c := r
	c.HeelHeight = cloneFloat(r.HeelHeight)
	c.ForefootHeight = cloneFloat(r.ForefootHeight)
	c.Drop = cloneFloat(r.Drop)
	c.Weight = cloneFloat(r.Weight)
	c.Price = cloneFloat(r.Price)
	c.CarbonPlate = cloneBool(r.CarbonPlate)
	c.Waterproof = cloneBool(r.Waterproof)
	return c
}

func fillFloat(dst **float64, src *float64) {
	if *dst == nil && src != nil {
		*dst = cloneFloat(src)
	}
}

func fillBool(dst **bool, src *bool) {
	if *dst == nil && src != nil {
		*dst = cloneBool(src)
	}
}

func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
