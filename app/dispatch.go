package app

import (
	"fmt"
	"strings"

	"scour/domain/core"
	"scour/domain/table"
	"scour/internal/detect"
	"scour/internal/transform"
)

// Operation identifiers accepted by the dispatch surface.
const (
	OpRemoveDuplicates = "remove_duplicates"
	OpSelectColumns    = "select_columns"

	OpImputeMean        = "impute_mean"
	OpImputeMedian      = "impute_median"
	OpImputeMode        = "impute_mode"
	OpImputeConstant    = "impute_constant"
	OpImputeFFill       = "impute_ffill"
	OpImputeBFill       = "impute_bfill"
	OpImputeInterpolate = "impute_interpolation"
	OpImputeKNN         = "impute_knn"
	OpImputeDrop        = "impute_drop"

	OpTreatOutliersIQR    = "treat_outliers_iqr"
	OpTreatOutliersWinsor = "treat_outliers_winsor"
	OpTreatOutliersZScore = "treat_outliers_zscore"

	OpEncodeOneHot  = "encode_onehot"
	OpEncodeOrdinal = "encode_ordinal"
	OpEncodeLabel   = "encode_label"

	OpMinMaxScale   = "min_max_scale"
	OpStandardScale = "standard_scale"
	OpRobustScale   = "robust_scale"
)

// applyOperation runs one named operator against the table and returns the
// new table plus the journal entry describing what happened. Errors leave the
// input table untouched.
func applyOperation(t *table.Table, op string, p Params) (*table.Table, string, error) {
	switch op {
	case OpRemoveDuplicates:
		next, removed := detect.RemoveDuplicates(t)
		return next, fmt.Sprintf("Removed %d duplicate row(s)", removed), nil

	case OpSelectColumns:
		keep, err := p.StringList("columns")
		if err != nil {
			return nil, "", err
		}
		next, err := transform.SelectColumns(t, keep)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("Selected %d column(s): %s", len(keep), strings.Join(keep, ", ")), nil

	case OpImputeMean, OpImputeMedian, OpImputeMode, OpImputeFFill, OpImputeBFill, OpImputeInterpolate, OpImputeKNN:
		return applyImputation(t, op, p)

	case OpImputeConstant:
		column, err := p.Column()
		if err != nil {
			return nil, "", err
		}
		value, err := p.Value("value")
		if err != nil {
			return nil, "", err
		}
		nulls := t.ProfileColumn(column).NullCount
		next, err := transform.ImputeConstant(t, column, value)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("Imputed %d missing value(s) in '%s' with constant %q", nulls, column, value.Display()), nil

	case OpImputeDrop:
		column, err := p.Column()
		if err != nil {
			return nil, "", err
		}
		nulls := t.ProfileColumn(column).NullCount
		next, err := transform.DropMissing(t, column)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("Dropped %d row(s) with missing '%s'", nulls, column), nil

	case OpTreatOutliersIQR, OpTreatOutliersWinsor, OpTreatOutliersZScore:
		return applyOutlierTreatment(t, op, p)

	case OpEncodeOneHot:
		column, err := p.Column()
		if err != nil {
			return nil, "", err
		}
		uniques := t.ProfileColumn(column).UniqueCount
		next, err := transform.EncodeOneHot(t, column)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("One-hot encoded '%s' into %d column(s)", column, uniques), nil

	case OpEncodeOrdinal:
		column, err := p.Column()
		if err != nil {
			return nil, "", err
		}
		order, err := p.StringList("order")
		if err != nil {
			return nil, "", err
		}
		next, err := transform.EncodeOrdinal(t, column, order)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("Ordinal-encoded '%s' over %d categories", column, len(order)), nil

	case OpEncodeLabel:
		column, err := p.Column()
		if err != nil {
			return nil, "", err
		}
		uniques := t.ProfileColumn(column).UniqueCount
		next, err := transform.EncodeLabel(t, column)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("Label-encoded '%s' (%d categories)", column, uniques), nil

	case OpMinMaxScale, OpStandardScale, OpRobustScale:
		return applyScaling(t, op, p)
	}
	return nil, "", core.NewUnknownOperationError(op)
}

func applyImputation(t *table.Table, op string, p Params) (*table.Table, string, error) {
	column, err := p.Column()
	if err != nil {
		return nil, "", err
	}
	nulls := t.ProfileColumn(column).NullCount

	var (
		method string
		next   *table.Table
	)
	switch op {
	case OpImputeMean:
		method = "mean"
		next, err = transform.ImputeMean(t, column)
	case OpImputeMedian:
		method = "median"
		next, err = transform.ImputeMedian(t, column)
	case OpImputeMode:
		method = "mode"
		next, err = transform.ImputeMode(t, column)
	case OpImputeFFill:
		method = "forward fill"
		next, err = transform.ImputeFFill(t, column)
	case OpImputeBFill:
		method = "backward fill"
		next, err = transform.ImputeBFill(t, column)
	case OpImputeInterpolate:
		method = "linear interpolation"
		next, err = transform.ImputeInterpolate(t, column)
	case OpImputeKNN:
		method = "KNN (k=5)"
		next, err = transform.ImputeKNN(t, column)
	}
	if err != nil {
		return nil, "", err
	}
	return next, fmt.Sprintf("Imputed %d missing value(s) in '%s' using %s", nulls, column, method), nil
}

func applyOutlierTreatment(t *table.Table, op string, p Params) (*table.Table, string, error) {
	column, err := p.Column()
	if err != nil {
		return nil, "", err
	}
	var (
		method string
		next   *table.Table
	)
	switch op {
	case OpTreatOutliersIQR:
		method = "IQR clamping"
		next, err = transform.ClampOutliersIQR(t, column)
	case OpTreatOutliersWinsor:
		lower, ferr := p.Float("lower", transform.WinsorLowerDefault)
		if ferr != nil {
			return nil, "", ferr
		}
		upper, ferr := p.Float("upper", transform.WinsorUpperDefault)
		if ferr != nil {
			return nil, "", ferr
		}
		method = fmt.Sprintf("winsorization (%.4g/%.4g)", lower, upper)
		next, err = transform.Winsorize(t, column, lower, upper)
	case OpTreatOutliersZScore:
		method = "z-score replacement"
		next, err = transform.TreatOutliersZScore(t, column)
	}
	if err != nil {
		return nil, "", err
	}
	treated := transform.ChangedCells(t, next, column)
	return next, fmt.Sprintf("Treated %d outlier(s) in '%s' using %s", treated, column, method), nil
}

func applyScaling(t *table.Table, op string, p Params) (*table.Table, string, error) {
	column, err := p.Column()
	if err != nil {
		return nil, "", err
	}

	var (
		method string
		next   *table.Table
	)
	switch op {
	case OpMinMaxScale:
		method = "min-max"
		next, err = transform.ScaleMinMax(t, column)
	case OpStandardScale:
		method = "standard"
		next, err = transform.ScaleStandard(t, column)
	case OpRobustScale:
		method = "robust"
		next, err = transform.ScaleRobust(t, column)
	}
	if err != nil {
		return nil, "", err
	}
	return next, fmt.Sprintf("Scaled '%s' using %s scaling", column, method), nil
}
