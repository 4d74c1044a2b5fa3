/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// toItem converts a normalized payload into an item carrying the key
// attributes. Payload fields may not shadow the key attributes.
func toItem(ref storagemodels.DocumentRef, p schema.Payload) (map[string]types.AttributeValue, error) {
	item := itemKey(ref)
	for k, v := range p {
		if k == AttrPK || k == AttrSK {
			return nil, errors.NewEncodingError(ref.Collection, ref.ID, k, fmt.Errorf("%s is a reserved attribute", k))
		}
		av, err := toAttributeValue(v)
		if err != nil {
			return nil, errors.NewEncodingError(ref.Collection, ref.ID, k, err)
		}
		item[k] = av
	}
	return item, nil
}

// toAttributeValue converts one canonical value. Times are stored as S in
// schema.TimeLayout so that string comparison orders them.
func toAttributeValue(v any) (types.AttributeValue, error) {
	switch x := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case time.Time:
		return &types.AttributeValueMemberS{Value: schema.FormatTime(x)}, nil
	case []any:
		list := make([]types.AttributeValue, len(x))
		for i, e := range x {
			av, err := toAttributeValue(e)
			if err != nil {
				return nil, err
			}
			list[i] = av
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case map[string]any:
		m := make(map[string]types.AttributeValue, len(x))
		for k, e := range x {
			av, err := toAttributeValue(e)
			if err != nil {
				return nil, err
			}
			m[k] = av
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case string:
		// Marshal turns empty strings into NULL unless told otherwise.
		return &types.AttributeValueMemberS{Value: x}, nil
	case bool, int64, float64:
		return attributevalue.Marshal(x)
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// fromItem converts an item back to a payload, dropping the key attributes.
func fromItem(ref storagemodels.DocumentRef, item map[string]types.AttributeValue) (map[string]any, error) {
	data := make(map[string]any, len(item))
	for k, av := range item {
		if k == AttrPK || k == AttrSK {
			continue
		}
		v, err := fromAttributeValue(av)
		if err != nil {
			return nil, errors.NewDecodingError(ref.Collection, ref.ID, k, err)
		}
		data[k] = v
	}
	return data, nil
}

func fromAttributeValue(av types.AttributeValue) (any, error) {
	switch x := av.(type) {
	case *types.AttributeValueMemberS:
		return x.Value, nil
	case *types.AttributeValueMemberN:
		return parseNumber(x.Value)
	case *types.AttributeValueMemberBOOL:
		return x.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberL:
		out := make([]any, len(x.Value))
		for i, e := range x.Value {
			v, err := fromAttributeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *types.AttributeValueMemberM:
		out := make(map[string]any, len(x.Value))
		for k, e := range x.Value {
			v, err := fromAttributeValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case *types.AttributeValueMemberSS:
		out := make([]any, len(x.Value))
		for i, s := range x.Value {
			out[i] = s
		}
		return out, nil
	case *types.AttributeValueMemberNS:
		out := make([]any, len(x.Value))
		for i, s := range x.Value {
			n, err := parseNumber(s)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported attribute type %T", av)
}

func parseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
