package formfield

import "sort"

// enabledIndexes 返回启用字段在 s 中的下标，按 Order 排序，Order 相同时保持原来的位置
func enabledIndexes(s Schema) []int {
	var indexes []int
	for idx := range s {
		if s[idx].Enabled {
			indexes = append(indexes, idx)
		}
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		return s[indexes[i]].Order < s[indexes[j]].Order
	})
	return indexes
}

// Ordered 返回按 Order 排序后的启用字段
func Ordered(s Schema) []Field {
	indexes := enabledIndexes(s)
	fields := make([]Field, 0, len(indexes))
	for _, idx := range indexes {
		fields = append(fields, s[idx].Clone())
	}
	return fields
}

// Normalize 将启用字段的 Order 重新编号为 0..N-1，禁用字段的 Order 不变
func Normalize(s Schema) Schema {
	c := s.Clone()
	for order, idx := range enabledIndexes(c) {
		c[idx].Order = order
	}
	return c
}

func nextOrder(s Schema) int {
	max := -1
	for idx := range s {
		if s[idx].Enabled && s[idx].Order > max {
			max = s[idx].Order
		}
	}
	return max + 1
}

// Reorder 拖放排序：将 draggedID 从启用字段中取出，插入到 targetID 原来所在的位置，
// 然后将所有启用字段的 Order 重新编号为 0..N-1。
//
// 向下拖动时字段落在目标之后，例如 [a b c d] 中把 a 拖到 c 得到 [b c a d]；
// 向上拖动时落在目标之前，把 d 拖到 b 得到 [a d b c]。
//
// 禁用字段不参与排序，它们的 Order 保持不变。
func Reorder(s Schema, draggedID, targetID string) Schema {
	c := s.Clone()
	if draggedID == targetID {
		return c
	}

	indexes := enabledIndexes(c)
	from, to := -1, -1
	for pos, idx := range indexes {
		switch c[idx].ID {
		case draggedID:
			from = pos
		case targetID:
			to = pos
		}
	}
	if from < 0 || to < 0 {
		return c
	}

	moved := indexes[from]
	indexes = append(indexes[:from], indexes[from+1:]...)
	indexes = append(indexes[:to], append([]int{moved}, indexes[to:]...)...)

	for order, idx := range indexes {
		c[idx].Order = order
	}
	return c
}
