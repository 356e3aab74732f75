package utils

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Inverted bucket probe
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				tryCount, bn, min, max := pm.getBucketWithTryCount(k)
				mmin, mmax := pm.GetBucketRange(bn)
				assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
			}
		}
		pm := NewPartitionMap(4, 10)
		bn, _, _ := pm.GetBucket(10)
		assert.Equal(t, -1, bn)
	}
	{ // A non-positive degree degrades to serial
		pm := NewPartitionMap(0, 7)
		assert.Equal(t, 1, pm.ParallelDegree)
		assert.Equal(t, [2]int{0, 7}, pm.Partitions[0])
	}
}

func TestRunBuckets(t *testing.T) {
	var (
		pm      = NewPartitionMap(8, 1000)
		visited = make([]int32, 1000)
		boom    = errors.New("boom")
	)
	errs := pm.RunBuckets(func(bn, kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&visited[k], 1)
		}
		if bn == 3 {
			return boom
		}
		return nil
	})
	for k := range visited {
		assert.Equal(t, int32(1), visited[k])
	}
	for bn, err := range errs {
		if bn == 3 {
			assert.ErrorIs(t, err, boom)
		} else {
			assert.NoError(t, err)
		}
	}
	{ // Empty buckets are never visited
		pm = NewPartitionMap(4, 2)
		var calls int32
		pm.RunBuckets(func(bn, kMin, kMax int) error {
			atomic.AddInt32(&calls, 1)
			assert.Less(t, kMin, kMax)
			return nil
		})
		assert.Equal(t, int32(2), calls)
	}
}
